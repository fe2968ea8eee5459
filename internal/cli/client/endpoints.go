package client

const (
	// API version prefix
	apiV1Prefix = "/api/v1"

	// Chat endpoints
	endpointChatStream = apiV1Prefix + "/chat/stream" // POST, SSE response
	endpointThread     = apiV1Prefix + "/chat/%s"     // GET - audit status

	// Governance endpoints
	endpointApprove = apiV1Prefix + "/approve" // POST

	// Knowledge endpoints
	endpointIngest = apiV1Prefix + "/ingest" // POST multipart

	// Session endpoints
	endpointLogout = apiV1Prefix + "/auth/logout" // POST

	endpointHealth = apiV1Prefix + "/health"
)
