package opensearch

import (
	"context"
	"errors"
	"fmt"

	"github.com/opensearch-project/opensearch-go/v2/opensearchapi"
)

// Healthcheck returns a probe calling the cluster info endpoint.
// *opensearch.Client satisfies opensearchapi.Transport.
func Healthcheck(client opensearchapi.Transport) func(context.Context) error {
	return func(ctx context.Context) error {
		res, err := opensearchapi.InfoRequest{ErrorTrace: true}.Do(ctx, client)
		if err != nil {
			return errors.Join(ErrHealthcheckFailed, err)
		}
		defer res.Body.Close()
		if res.IsError() {
			return fmt.Errorf("%w: status %d", ErrHealthcheckFailed, res.StatusCode)
		}
		return nil
	}
}
