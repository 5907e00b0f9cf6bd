// Package acl holds the anti-corruption layer between downstream services
// and the domain.
//
// Adapters here own the external DTOs. Nothing outside the package sees a
// wire type: responses are decoded, checked, and translated into domain
// values, and failures of any kind are translated into domain errors.
//
// The only downstream today is the Gemini generateContent API, wrapped by
// [GeminiClient] as a ports.MotivationGenerator. Its failure contract is
// narrow: transport errors, error statuses, blocked or empty candidates,
// and malformed payloads all surface as [domain.ErrUnavailable], carrying
// the cause in the reason text.
//
// [BaseAdapter] and [DecodeResponse] are the reusable pieces for the next
// adapter.
package acl
