package service

import (
	"github.com/Dan9191/message-service/internal/models"
	"github.com/Dan9191/message-service/internal/repository"
)

// ScopeForRead narrows message queries to the records owned by identity.
// Foreign messages are never loaded, so they surface as not found.
func ScopeForRead(identity *models.User) repository.MessageFilter {
	return repository.MessageFilter{UserID: identity.ID}
}

// StampOwner assigns identity as the owner of draft, overriding whatever the
// client sent.
func StampOwner(identity *models.User, draft *models.Message) *models.Message {
	draft.UserID = identity.ID
	return draft
}
