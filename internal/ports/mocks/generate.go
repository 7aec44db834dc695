//go:generate mockgen -source=../logger.go           -destination=./mock_logger.go           -package=mocks
//go:generate mockgen -source=../message_consumer.go -destination=./mock_message_consumer.go -package=mocks
//go:generate mockgen -source=../order_repository.go -destination=./mock_order_repository.go -package=mocks
//go:generate mockgen -source=../validator.go        -destination=./mock_validator.go        -package=mocks
//go:generate mockgen -source=../report_cache.go     -destination=./mock_report_cache.go     -package=mocks
//go:generate mockgen -source=../kv_store.go         -destination=./mock_kv_store.go         -package=mocks
//go:generate mockgen -source=../registrar.go        -destination=./mock_registrar.go        -package=mocks
//go:generate mockgen -source=../notifier.go         -destination=./mock_notifier.go         -package=mocks
//go:generate mockgen -source=../connectivity.go     -destination=./mock_connectivity.go     -package=mocks
//go:generate mockgen -source=../report_delivery.go  -destination=./mock_report_delivery.go  -package=mocks
//go:generate mockgen -source=../services.go         -destination=./mock_services.go         -package=mocks

package mocks
