package errreport

import (
	"context"
)

// Reporter is the out-of-band error sink. Trigger failures are written here
// with contextual labels (user id) in addition to being merged into the
// affected record.
type Reporter interface {
	Report(ctx context.Context, err error, labels map[string]string)
}
