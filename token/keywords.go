package token

import "strings"

// keywords maps the lowercase canonical spelling to its token kind.
// Lookup in Lookup() lowercases the candidate text first, so MDSL keywords
// match regardless of source case (spec.md §4.3 case-insensitive keywords).
var keywords = map[string]Token{
	"import":              IMPORT,
	"let":                 LET,
	"unit":                UNIT,
	"vocabulary":          VOCABULARY,
	"catalog":             CATALOG,
	"source":              SOURCE,
	"template":            TEMPLATE,
	"outlet":              OUTLET,
	"family":              FAMILY,
	"group":               GROUP,
	"based_on":            BASED_ON,
	"extends":             EXTENDS,
	"data":                DATA,
	"for":                 FOR,
	"year":                YEAR,
	"metrics":             METRICS,
	"aggregation":         AGGREGATION,
	"diachronic_link":     DIACHRONIC_LINK,
	"synchronous_link":    SYNCHRONOUS_LINK,
	"event":               EVENT,
	"predecessor":         PREDECESSOR,
	"successor":           SUCCESSOR,
	"event_date":          EVENT_DATE,
	"relationship_type":   RELATIONSHIP_TYPE,
	"period":              PERIOD,
	"details":             DETAILS,
	"identity":            IDENTITY,
	"lifecycle":           LIFECYCLE,
	"status":              STATUS,
	"characteristics":     CHARACTERISTICS,
	"metadata":            METADATA,
	"distribution":        DISTRIBUTION,
	"from":                FROM,
	"to":                  TO,
	"current":             CURRENT,
	"primary":             PRIMARY,
	"key":                 KEY,
	"id":                  ID,
	"text":                TEXT,
	"number":              NUMBERTYPE,
	"boolean":             BOOLEAN,
	"category":            CATEGORY,
	"true":                TRUE,
	"false":               FALSE,
	"override":            OVERRIDE,
	"for_period":          FOR_PERIOD,
	"inherits_from":       INHERITS_FROM,
	"until":               UNTIL,
	"type":                TYPE,
	"date":                DATE,
	"entities":            ENTITIES,
	"impact":              IMPACT,
	"stake_before":        STAKE_BEFORE,
	"stake_after":         STAKE_AFTER,
	"triggered_by_event":  TRIGGERED_BY_EVENT,
	"created_by_event":    CREATED_BY_EVENT,
	"outlet_ref":          OUTLET_REF,
}

// Lookup returns the keyword token for ident (case-insensitive), or
// (IDENT, false) if ident is not a reserved word.
func Lookup(ident string) (Token, bool) {
	tok, ok := keywords[strings.ToLower(ident)]
	if !ok {
		return IDENT, false
	}
	return tok, true
}
