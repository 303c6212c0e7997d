package event

import (
	"github.com/granada-os/backend/internal/domain/billing"
	"github.com/granada-os/backend/internal/domain/funding"
	"github.com/granada-os/backend/internal/domain/identity"
	"github.com/granada-os/backend/internal/domain/proposal"
)

// RegisterAllEvents registers all domain event types with the serializer.
// This is required for the OutboxProcessor to deserialize events from the
// outbox table.
func RegisterAllEvents(serializer *EventSerializer) {
	// Identity domain events
	serializer.Register(identity.EventTypeUserRegistered, &identity.UserRegisteredEvent{})
	serializer.Register(identity.EventTypeUserLoggedIn, &identity.UserLoggedInEvent{})
	serializer.Register(identity.EventTypeUserBanned, &identity.UserBannedEvent{})
	serializer.Register(identity.EventTypeUserUnbanned, &identity.UserUnbannedEvent{})
	serializer.Register(identity.EventTypeUserStatusChanged, &identity.UserStatusChangedEvent{})
	serializer.Register(identity.EventTypeUserPasswordChanged, &identity.UserPasswordChangedEvent{})

	// Funding domain events
	serializer.Register(funding.EventTypeOpportunityIngested, &funding.OpportunityIngestedEvent{})
	serializer.Register(funding.EventTypeOpportunityVerified, &funding.OpportunityVerifiedEvent{})
	serializer.Register(funding.EventTypeBotRewarded, &funding.BotRewardedEvent{})

	// Billing domain events
	serializer.Register(billing.EventTypePaymentSucceeded, &billing.PaymentSucceededEvent{})
	serializer.Register(billing.EventTypePaymentFailed, &billing.PaymentFailedEvent{})

	// Proposal domain events
	serializer.Register(proposal.EventTypeProposalSubmitted, &proposal.ProposalSubmittedEvent{})
	serializer.Register(proposal.EventTypeProposalStatusChanged, &proposal.ProposalStatusChangedEvent{})
	serializer.Register(proposal.EventTypeProposalStatusForced, &proposal.ProposalStatusForcedEvent{})
}
