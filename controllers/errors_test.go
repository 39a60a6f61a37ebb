package controllers

import (
	"net/http"
	"testing"

	"github.com/HSouheill/admarket_backend/workflow"
	"github.com/stretchr/testify/assert"
)

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, statusFor(workflow.ErrInvalidDecision))
	assert.Equal(t, http.StatusNotFound, statusFor(workflow.ErrReferentNotFound))
	assert.Equal(t, http.StatusForbidden, statusFor(workflow.ErrNotAuthorized))
	assert.Equal(t, http.StatusBadRequest, statusFor(workflow.ErrInvalidTransition))
	assert.Equal(t, http.StatusConflict, statusFor(workflow.ErrStaleState))
	assert.Equal(t, http.StatusInternalServerError, statusFor(assert.AnError))
}
