package funding

import (
	"github.com/granada-os/backend/internal/domain/shared"
)

// Aggregate type constants
const (
	AggregateTypeOpportunity = "DonorOpportunity"
	AggregateTypeSearchBot   = "SearchBot"
)

// Funding domain event types
const (
	EventTypeOpportunityIngested = "OpportunityIngested"
	EventTypeOpportunityVerified = "OpportunityVerified"
	EventTypeBotRewarded         = "BotRewarded"
)

// OpportunityIngestedEvent is published when a new posting enters the catalog
type OpportunityIngestedEvent struct {
	shared.BaseDomainEvent
	Title       string `json:"title"`
	SourceName  string `json:"source_name"`
	Country     string `json:"country"`
	ContentHash string `json:"content_hash"`
}

// NewOpportunityIngestedEvent creates a new OpportunityIngestedEvent
func NewOpportunityIngestedEvent(opp *DonorOpportunity) *OpportunityIngestedEvent {
	return &OpportunityIngestedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOpportunityIngested, AggregateTypeOpportunity, opp.ID),
		Title:           opp.Title,
		SourceName:      opp.SourceName,
		Country:         opp.Country,
		ContentHash:     opp.ContentHash,
	}
}

// OpportunityVerifiedEvent is published when a posting first passes verification
type OpportunityVerifiedEvent struct {
	shared.BaseDomainEvent
	Title string  `json:"title"`
	Score float64 `json:"score"`
}

// NewOpportunityVerifiedEvent creates a new OpportunityVerifiedEvent
func NewOpportunityVerifiedEvent(opp *DonorOpportunity) *OpportunityVerifiedEvent {
	return &OpportunityVerifiedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOpportunityVerified, AggregateTypeOpportunity, opp.ID),
		Title:           opp.Title,
		Score:           opp.VerificationScore,
	}
}

// BotRewardedEvent is published when a search bot earns a reward
type BotRewardedEvent struct {
	shared.BaseDomainEvent
	BotName            string `json:"bot_name"`
	OpportunitiesFound int    `json:"opportunities_found"`
}

// NewBotRewardedEvent creates a new BotRewardedEvent
func NewBotRewardedEvent(bot *SearchBot, found int) *BotRewardedEvent {
	return &BotRewardedEvent{
		BaseDomainEvent:    shared.NewBaseDomainEvent(EventTypeBotRewarded, AggregateTypeSearchBot, bot.ID),
		BotName:            bot.Name,
		OpportunitiesFound: found,
	}
}
