package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	accountdomain "github.com/jakub-pelec/teacherspace-cf/internal/account/domain"
)

type CreateAccountRequest struct {
	Email     string   `json:"email"`
	Password  string   `json:"password"`
	FirstName string   `json:"firstName"`
	LastName  string   `json:"lastName"`
	Subjects  []string `json:"subjects"`
	Classes   []string `json:"classes"`
}

// CreateAccount provisions a user account. Every failure, validation
// included, funnels through the same 403 envelope the clients already
// handle.
func (s *Server) CreateAccount(c *gin.Context) {
	var req CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusForbidden, Envelope(CodeFirebaseError, err.Error(), nil))
		return
	}

	result, err := s.accountSvc.Create(c.Request.Context(), accountdomain.CreateAccountRequest{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Subjects:  req.Subjects,
		Classes:   req.Classes,
	})
	if err != nil {
		c.JSON(http.StatusForbidden, Envelope(CodeFirebaseError, err.Error(), nil))
		return
	}

	payload := map[string]any{"firestoreID": result.FirestoreID}
	if result.SetupSecret != "" {
		payload["setupSecret"] = result.SetupSecret
	}
	c.JSON(http.StatusOK, Envelope(CodeSuccess, "Account created", payload))
}
