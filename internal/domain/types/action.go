package types

const (
	ActionRabbitMQConnected       = "rabbitmq_connected"
	ActionRabbitConnectionClosed  = "rabbitmq_connection_closed"
	ActionRabbitConnectionClosing = "rabbitmq_connection_closing"
	ActionRabbitReconnected       = "rabbitmq_reconnection_success"

	ActionDatabaseTransactionFailed = "database_transaction_failed"
	ActionExternalServiceFailed     = "external_service_failed"

	ActionTripSubmit      = "trip_submit"
	ActionTripCommitted   = "trip_committed"
	ActionTripRejected    = "trip_rejected"
	ActionMirrorFetch     = "mirror_fetch"
	ActionRelaySubmit     = "relay_submit"
	ActionSuggestion      = "suggestion"
	ActionLogin           = "driver_login"
	ActionEventPublish    = "trip_event_publish"
	ActionReportGenerated = "report_generated"
)
