package email

// HTML shells for the two outbound message kinds. Body content slots are
// filled by the typed render functions in render.go.

const digestHTMLTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body style="margin:0;padding:0;background-color:#0f1014;font-family:Segoe UI,Roboto,Helvetica,Arial,sans-serif;">
  <table role="presentation" width="100%" cellpadding="0" cellspacing="0" style="background-color:#0f1014;">
    <tr>
      <td align="center" style="padding:32px 16px;">
        <table role="presentation" width="600" cellpadding="0" cellspacing="0" style="max-width:600px;width:100%;background-color:#17181d;border-radius:12px;">
          <tr>
            <td style="padding:28px 32px 8px 32px;">
              <span style="color:#fdd458;font-size:20px;font-weight:700;">Signalist</span>
            </td>
          </tr>
          <tr>
            <td style="padding:8px 32px 0 32px;">
              <h1 style="margin:0;color:#ffffff;font-size:22px;">Your Market News Summary</h1>
              <p style="margin:8px 0 0 0;color:#9aa0a6;font-size:14px;">{{.Date}}</p>
            </td>
          </tr>
          <tr>
            <td style="padding:20px 32px;color:#d6d9dc;font-size:15px;line-height:1.6;">
              {{.NewsContent}}
            </td>
          </tr>
          <tr>
            <td style="padding:0 32px 28px 32px;">
              <p style="margin:0;color:#5f6368;font-size:12px;">You are receiving this because you have a Signalist account. Market data is informational and not investment advice.</p>
            </td>
          </tr>
        </table>
      </td>
    </tr>
  </table>
</body>
</html>`

const welcomeHTMLTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body style="margin:0;padding:0;background-color:#0f1014;font-family:Segoe UI,Roboto,Helvetica,Arial,sans-serif;">
  <table role="presentation" width="100%" cellpadding="0" cellspacing="0" style="background-color:#0f1014;">
    <tr>
      <td align="center" style="padding:32px 16px;">
        <table role="presentation" width="600" cellpadding="0" cellspacing="0" style="max-width:600px;width:100%;background-color:#17181d;border-radius:12px;">
          <tr>
            <td style="padding:28px 32px 8px 32px;">
              <span style="color:#fdd458;font-size:20px;font-weight:700;">Signalist</span>
            </td>
          </tr>
          <tr>
            <td style="padding:8px 32px 0 32px;">
              <h1 style="margin:0;color:#ffffff;font-size:22px;">Welcome aboard, {{.Name}}</h1>
            </td>
          </tr>
          <tr>
            <td style="padding:20px 32px;color:#d6d9dc;font-size:15px;line-height:1.6;">
              <p style="margin:0 0 16px 0;">{{.Intro}}</p>
              <p style="margin:0 0 16px 0;">Here is what you can do right now:</p>
              <ul style="margin:0 0 16px 0;padding-left:20px;">
                <li style="margin-bottom:8px;">Build your watchlist of stocks you care about.</li>
                <li style="margin-bottom:8px;">Set alerts for price moves that matter to you.</li>
                <li style="margin-bottom:8px;">Get a personalized market digest every day at noon.</li>
              </ul>
            </td>
          </tr>
          <tr>
            <td style="padding:0 32px 28px 32px;">
              <p style="margin:0;color:#5f6368;font-size:12px;">Happy investing, from the Signalist team.</p>
            </td>
          </tr>
        </table>
      </td>
    </tr>
  </table>
</body>
</html>`
