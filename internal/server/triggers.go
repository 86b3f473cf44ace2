package server

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	cloudevents "github.com/cloudevents/sdk-go/v2"
	"github.com/cloudevents/sdk-go/v2/event"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	paymentdomain "github.com/jakub-pelec/teacherspace-cf/internal/payment/domain"
)

// Firestore event types as delivered by Eventarc.
const (
	eventDocCreated = "google.cloud.firestore.document.v1.created"
	eventDocUpdated = "google.cloud.firestore.document.v1.updated"
)

// FirestoreTrigger dispatches document create/update events to the payment
// workflow. Events are acked with 200 once parsed regardless of processing
// outcome: trigger failures are recorded on the affected document and
// reported out of band, and the platform's at-least-once redelivery is the
// only retry mechanism.
func (s *Server) FirestoreTrigger(c *gin.Context) {
	ev, err := cloudevents.NewEventFromHTTPRequest(c.Request)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid cloudevent"})
		return
	}

	subject := strings.TrimPrefix(ev.Subject(), "documents/")
	segments := strings.Split(subject, "/")
	if len(segments) != 4 || segments[0] != paymentdomain.CollectionUsers {
		c.JSON(http.StatusOK, gin.H{"status": "ignored"})
		return
	}
	userID, subcollection, docID := segments[1], segments[2], segments[3]

	ctx := c.Request.Context()
	var opErr error
	switch {
	case ev.Type() == eventDocCreated && subcollection == paymentdomain.CollectionPaymentMethods:
		opErr = s.paymentSvc.CapturePaymentMethod(ctx, userID, docID)
	case ev.Type() == eventDocCreated && subcollection == paymentdomain.CollectionPayments:
		opErr = s.paymentSvc.CreatePayment(ctx, userID, docID)
	case ev.Type() == eventDocUpdated && subcollection == paymentdomain.CollectionPayments:
		opErr = s.paymentSvc.ConfirmPayment(ctx, userID, docID)
	default:
		c.JSON(http.StatusOK, gin.H{"status": "ignored"})
		return
	}

	if opErr != nil {
		s.log.Warn("trigger processing failed",
			zap.String("type", ev.Type()),
			zap.String("subject", subject),
			zap.Error(opErr),
		)
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// AuthUserDeleted handles the identity-provider account-deletion event and
// cascades the cleanup. Accepts either a structured CloudEvent or a bare
// JSON body carrying the uid.
func (s *Server) AuthUserDeleted(c *gin.Context) {
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable body"})
		return
	}

	var msg struct {
		UID string `json:"uid"`
	}
	var ev event.Event
	if err := json.Unmarshal(payload, &ev); err == nil && ev.Type() != "" {
		_ = json.Unmarshal(ev.Data(), &msg)
	}
	if msg.UID == "" {
		_ = json.Unmarshal(payload, &msg)
	}
	if msg.UID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing uid"})
		return
	}

	if err := s.paymentSvc.CleanupUser(c.Request.Context(), msg.UID); err != nil {
		s.log.Warn("cleanup failed", zap.String("uid", msg.UID), zap.Error(err))
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
