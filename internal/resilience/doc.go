// Package resilience holds the fault tolerance used on outbound calls.
//
// circuitbreaker wraps every FactNews API request and every feed preview probe;
// an open circuit fails the call at once and is exported as circuit_breaker_state.
//
//	cb := circuitbreaker.New(circuitbreaker.FactNewsAPIConfig(), nil)
//	err := cb.Run(func() error { return send(ctx, req) })
//	if circuitbreaker.IsRejection(err) { /* upstream considered down */ }
package resilience
