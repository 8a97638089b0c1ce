package logger

import (
	"fmt"
	"io"
	"os"
)

// CloudWatchConfig holds configuration for CloudWatch Logs output.
type CloudWatchConfig struct {
	// Group is the CloudWatch log group name.
	Group string
	// Stream is the CloudWatch log stream name.
	Stream string
	// Region is the AWS region for the CloudWatch endpoint.
	Region string
}

// cloudWatchWriter writes log lines destined for CloudWatch Logs. When the
// process runs on Lambda or ECS with the awslogs driver, stdout already
// lands in CloudWatch, so the writer delegates there rather than calling
// PutLogEvents itself.
type cloudWatchWriter struct {
	cfg    CloudWatchConfig
	stdout io.Writer
}

// NewCloudWatchWriter returns an io.Writer for CloudWatch-bound log output.
func NewCloudWatchWriter(cfg CloudWatchConfig) io.Writer {
	fmt.Fprintf(os.Stderr,
		"cloudwatch log output configured (group=%s, stream=%s, region=%s); relying on platform stdout forwarding\n",
		cfg.Group, cfg.Stream, cfg.Region,
	)
	return &cloudWatchWriter{
		cfg:    cfg,
		stdout: os.Stdout,
	}
}

// Write implements io.Writer.
func (w *cloudWatchWriter) Write(p []byte) (n int, err error) {
	return w.stdout.Write(p)
}
