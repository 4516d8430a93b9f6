package handler

import (
	"context"

	"github.com/grinventions/slateboy/internal/core/domain"
	"github.com/grinventions/slateboy/internal/core/ports"
	"github.com/grinventions/slateboy/pkg/apperror"
	"github.com/grinventions/slateboy/pkg/response"

	"github.com/gin-gonic/gin"
)

// ChatEngine is the protocol surface a chat transport drives. A transport
// bridge forwards user commands here and delivers the returned replies.
type ChatEngine interface {
	Deposit(ctx context.Context, sender ports.Sender, rawAmount string) ([]domain.Reply, error)
	Withdraw(ctx context.Context, sender ports.Sender, rawAmount string, max bool) ([]domain.Reply, error)
	Balance(ctx context.Context, sender ports.Sender) ([]domain.Reply, error)
	HandleSlatepack(ctx context.Context, sender ports.Sender, text string) ([]domain.Reply, error)
	ApproveEULA(ctx context.Context, sender ports.Sender) ([]domain.Reply, error)
	DenyEULA(ctx context.Context, sender ports.Sender) ([]domain.Reply, error)
}

// ChatHandler bridges an external chat transport to the protocol engine.
type ChatHandler struct {
	engine ChatEngine
}

// NewChatHandler creates a ChatHandler.
func NewChatHandler(engine ChatEngine) *ChatHandler {
	return &ChatHandler{engine: engine}
}

type chatEventRequest struct {
	UserID  int64  `json:"user_id" binding:"required"`
	IsBot   bool   `json:"is_bot"`
	Command string `json:"command" binding:"required"` // deposit, withdraw, balance, slatepack, approve, deny
	Text    string `json:"text"`                       // command argument or slatepack body
	Max     bool   `json:"max"`                        // withdraw everything spendable
}

// HandleEvent handles POST /api/v1/chat/events.
func (h *ChatHandler) HandleEvent(c *gin.Context) {
	var req chatEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.ErrMalformedChatEvent())
		return
	}

	ctx := c.Request.Context()
	sender := ports.Sender{UserID: req.UserID, IsBot: req.IsBot}

	var (
		replies []domain.Reply
		err     error
	)
	switch req.Command {
	case "deposit":
		replies, err = h.engine.Deposit(ctx, sender, req.Text)
	case "withdraw":
		replies, err = h.engine.Withdraw(ctx, sender, req.Text, req.Max)
	case "balance":
		replies, err = h.engine.Balance(ctx, sender)
	case "slatepack":
		replies, err = h.engine.HandleSlatepack(ctx, sender, req.Text)
	case "approve":
		replies, err = h.engine.ApproveEULA(ctx, sender)
	case "deny":
		replies, err = h.engine.DenyEULA(ctx, sender)
	default:
		response.Error(c, apperror.ErrMalformedChatEvent())
		return
	}
	if err != nil {
		response.Error(c, err)
		return
	}

	if replies == nil {
		replies = []domain.Reply{}
	}
	response.OK(c, gin.H{"replies": replies})
}
