package config

import (
	"os"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

type BillingConfig struct {
	InvitationTTL          time.Duration
	DefaultSharePercentage decimal.Decimal
	MaxInvitesPerInviter   int
	InviteRateLimitWindow  time.Duration
	MinGrantAmount         decimal.Decimal
	MaxGrantAmount         decimal.Decimal
	PageSize               int
	MaxPageSize            int
	StatisticsWindow       time.Duration
	RecentTransactionLimit int
	AcceptURLBase          string
	MailQueue              string
}

// evenSplit is the invitee's share under the two-party model. It is not
// configurable: the owner keeps the remaining half.
var evenSplit = decimal.NewFromInt(50)

func LoadBillingConfig() *BillingConfig {
	return &BillingConfig{
		InvitationTTL:          getEnvAsDuration("BILLING_INVITATION_TTL", 7*24*time.Hour),
		DefaultSharePercentage: evenSplit,
		MaxInvitesPerInviter:   getEnvAsInt("BILLING_MAX_INVITES_PER_WINDOW", 10),
		InviteRateLimitWindow:  getEnvAsDuration("BILLING_INVITE_RATE_LIMIT_WINDOW", 1*time.Hour),
		MinGrantAmount:         getEnvAsDecimal("CREDITS_MIN_GRANT", decimal.RequireFromString("0.01")),
		MaxGrantAmount:         getEnvAsDecimal("CREDITS_MAX_GRANT", decimal.NewFromInt(10000)),
		PageSize:               getEnvAsInt("CREDITS_PAGE_SIZE", 50),
		MaxPageSize:            getEnvAsInt("CREDITS_MAX_PAGE_SIZE", 100),
		StatisticsWindow:       getEnvAsDuration("CREDITS_STATISTICS_WINDOW", 30*24*time.Hour),
		RecentTransactionLimit: getEnvAsInt("CREDITS_RECENT_LIMIT", 10),
		AcceptURLBase:          getEnv("BILLING_ACCEPT_URL_BASE", "http://localhost:8080/billing/invitations"),
		MailQueue:              getEnv("BILLING_MAIL_QUEUE", "mail_queue"),
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if duration, err := time.ParseDuration(val); err == nil {
			return duration
		}
	}
	return defaultVal
}

func getEnvAsDecimal(key string, defaultVal decimal.Decimal) decimal.Decimal {
	if val := os.Getenv(key); val != "" {
		if d, err := decimal.NewFromString(val); err == nil {
			return d
		}
	}
	return defaultVal
}
