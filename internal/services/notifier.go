package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/shopspring/decimal"
)

// InvitationNotice is everything the invitee email needs.
type InvitationNotice struct {
	InvitationUUID  string          `json:"invitation_uuid"`
	Token           string          `json:"token"`
	InviteeEmail    string          `json:"invitee_email"`
	InviterName     string          `json:"inviter_name"`
	ServerName      string          `json:"server_name"`
	SharePercentage decimal.Decimal `json:"share_percentage"`
	Message         string          `json:"message,omitempty"`
	ExpiresAt       time.Time       `json:"expires_at"`
	AcceptURL       string          `json:"accept_url"`
}

// Notifier delivers invitation emails. Delivery happens after the invitation
// is committed; a failure is logged and never undoes the invitation.
type Notifier interface {
	NotifyInvitation(ctx context.Context, notice InvitationNotice) error
}

type mailJob struct {
	Template string           `json:"template"`
	To       string           `json:"to"`
	Subject  string           `json:"subject"`
	Data     InvitationNotice `json:"data"`
}

// QueueNotifier pushes mail jobs onto a Redis list consumed by the panel's
// mail worker.
type QueueNotifier struct {
	redis *redis.Client
	queue string
}

func NewQueueNotifier(client *redis.Client, queue string) *QueueNotifier {
	return &QueueNotifier{redis: client, queue: queue}
}

func (n *QueueNotifier) NotifyInvitation(ctx context.Context, notice InvitationNotice) error {
	if n.redis == nil {
		log.Printf("[SPLIT_BILLING] Mail queue unavailable, invitation %s for %s not queued", notice.InvitationUUID, notice.InviteeEmail)
		return nil
	}

	data, err := json.Marshal(mailJob{
		Template: "billing_invitation",
		To:       notice.InviteeEmail,
		Subject:  fmt.Sprintf("%s invited you to split billing for %s", notice.InviterName, notice.ServerName),
		Data:     notice,
	})
	if err != nil {
		return err
	}

	return n.redis.RPush(ctx, n.queue, string(data)).Err()
}
