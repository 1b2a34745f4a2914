package observability

import "go.opentelemetry.io/otel/attribute"

func leagueAttribute(leagueID int) attribute.KeyValue {
	return attribute.Int("bund.league_id", leagueID)
}
