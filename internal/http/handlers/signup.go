package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	temporalsdkclient "go.temporal.io/sdk/client"
	"gorm.io/gorm"

	"github.com/beancode/signalist-backend/internal/data/repos/users"
	"github.com/beancode/signalist-backend/internal/digest"
	types "github.com/beancode/signalist-backend/internal/domain"
	"github.com/beancode/signalist-backend/internal/http/response"
	"github.com/beancode/signalist-backend/internal/platform/logger"
	"github.com/beancode/signalist-backend/internal/temporalx"
	"github.com/beancode/signalist-backend/internal/temporalx/welcomerun"
)

// SignupHandler ingests signup events: it upserts the user row and kicks off
// the one-recipient welcome flow.
type SignupHandler struct {
	log   *logger.Logger
	db    *gorm.DB
	users users.UserRepo
	tc    temporalsdkclient.Client
	cfg   temporalx.Config
}

func NewSignupHandler(log *logger.Logger, db *gorm.DB, userRepo users.UserRepo, tc temporalsdkclient.Client) *SignupHandler {
	return &SignupHandler{
		log:   log.With("handler", "SignupHandler"),
		db:    db,
		users: userRepo,
		tc:    tc,
		cfg:   temporalx.LoadConfig(),
	}
}

func (h *SignupHandler) Ingest(c *gin.Context) {
	var event welcomerun.SignupEvent
	if err := c.ShouldBindJSON(&event); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	if !digest.EligibleRecipient(event.Name, event.Email) {
		response.RespondError(c, http.StatusBadRequest, "invalid_signup",
			fmt.Errorf("signup event requires both name and email"))
		return
	}

	attrs, err := json.Marshal(event)
	if err != nil {
		attrs = []byte("{}")
	}
	user := &types.User{
		ID:                uuid.New(),
		Email:             event.Email,
		Name:              event.Name,
		Country:           event.Country,
		InvestmentGoals:   event.InvestmentGoals,
		RiskTolerance:     event.RiskTolerance,
		PreferredIndustry: event.PreferredIndustry,
		SignupAttrs:       attrs,
	}
	if _, err := h.users.Upsert(c.Request.Context(), h.db, user); err != nil {
		h.log.Error("Signup upsert failed", "error", err)
		response.RespondError(c, http.StatusInternalServerError, "signup_store_failed", err)
		return
	}

	if h.tc == nil {
		// No workflow backend wired; the user row is still stored.
		response.RespondAccepted(c, gin.H{"stored": true, "welcomeQueued": false})
		return
	}

	workflowID := fmt.Sprintf("sign-up-email-%s-%d", user.ID, time.Now().UTC().Unix())
	run, err := h.tc.ExecuteWorkflow(c.Request.Context(), temporalsdkclient.StartWorkflowOptions{
		ID:        workflowID,
		TaskQueue: h.cfg.TaskQueue,
	}, welcomerun.WorkflowName, event)
	if err != nil {
		h.log.Error("Welcome workflow start failed", "error", err)
		response.RespondError(c, http.StatusBadGateway, "welcome_start_failed", err)
		return
	}

	response.RespondAccepted(c, gin.H{
		"stored":        true,
		"welcomeQueued": true,
		"workflowId":    run.GetID(),
		"runId":         run.GetRunID(),
	})
}
