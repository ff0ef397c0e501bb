package routegen

// Status is the status of the route generator service
type Status struct {
	// Whether the external routing service answered the capability probe.
	// When false, suggestions are approximated locally.
	RoutingAvailable bool `json:"routing_available"`
}
