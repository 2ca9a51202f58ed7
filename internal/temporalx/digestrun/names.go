package digestrun

// Workflow and activity registration names. Activity names double as the
// externally visible step names in Temporal history, so keep them stable.
const (
	WorkflowName = "daily-news-summary"

	ActivityLoadRecipients = "digest.load-recipients"
	ActivityBuildBundles   = "digest.fetch-user-news"
	ActivitySummarize      = "digest.summarize-news"
	ActivityDispatch       = "digest.send-news-emails"
	ActivityRecordRun      = "digest.record-run"
)
