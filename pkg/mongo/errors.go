package mongo

import "errors"

var (
	ErrFailedToConnectToMongo = errors.New("failed to connect to mongo")
	ErrEmptyConnectionURL     = errors.New("empty mongo connection URL")
	ErrHealthcheckFailed      = errors.New("mongo healthcheck failed")
	ErrIndexCreation          = errors.New("failed to create mongo index")
	ErrRecordWrite            = errors.New("failed to upsert reconciliation record")
)
