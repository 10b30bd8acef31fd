package rest

const (
	RouteUploads = "/uploads"
	RouteExports = RouteUploads + "/exports"

	RouteDocs = "/docs/*any"

	// ops
	RouteHealth  = "/healthz"
	RouteMetrics = "/metrics"
)
