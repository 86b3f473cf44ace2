package errreport

import (
	"context"
	"fmt"

	"cloud.google.com/go/logging"
)

const logName = "errors"

// CloudLoggingReporter writes error events to the Cloud Logging "errors"
// log with cloud-function style resource labels.
type CloudLoggingReporter struct {
	client       *logging.Client
	log          *logging.Logger
	functionName string
}

func NewCloudLoggingReporter(ctx context.Context, projectID, functionName string) (*CloudLoggingReporter, error) {
	client, err := logging.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("logging client: %w", err)
	}
	return &CloudLoggingReporter{
		client:       client,
		log:          client.Logger(logName),
		functionName: functionName,
	}, nil
}

func (r *CloudLoggingReporter) Report(_ context.Context, err error, labels map[string]string) {
	if err == nil {
		return
	}

	entryLabels := map[string]string{"function_name": r.functionName}
	for k, v := range labels {
		entryLabels[k] = v
	}

	r.log.Log(logging.Entry{
		Severity: logging.Error,
		Labels:   entryLabels,
		Payload: map[string]any{
			"message": err.Error(),
			"serviceContext": map[string]any{
				"service":      r.functionName,
				"resourceType": "cloud_function",
			},
		},
	})
}

func (r *CloudLoggingReporter) Close() error {
	return r.client.Close()
}
