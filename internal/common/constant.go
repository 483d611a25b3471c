// Package common contains shared constants and sentinel errors used across
// folio components.
package common

// AccessTokenHeaderName is the gRPC metadata key used to carry the
// access token on outbound requests.
const AccessTokenHeaderName = "access_token"

// TimestampLayout is the fixed-width UTC layout used for timestamps stored
// inside document fields. Fixed width keeps lexicographic order equal to
// chronological order, so stores can sort on the raw string.
const TimestampLayout = "2006-01-02T15:04:05.000000Z"
