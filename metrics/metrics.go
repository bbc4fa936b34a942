package metrics

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/uber-go/tally/v4"
	promreporter "github.com/uber-go/tally/v4/prometheus"
	"zombiezen.com/go/log"
)

type MetricsRegistry struct {
	scope    tally.Scope
	closer   io.Closer
	reporter promreporter.Reporter
	ctx      context.Context
	httpPort int
}

func NewMetricRegistry(httpPort int) *MetricsRegistry {
	r := promreporter.NewReporter(promreporter.Options{})

	scope, closer := tally.NewRootScope(tally.ScopeOptions{
		Prefix:         "clubd",
		Tags:           map[string]string{},
		CachedReporter: r,
		Separator:      promreporter.DefaultSeparator,
	}, 1*time.Second)

	return &MetricsRegistry{
		scope:    scope,
		closer:   closer,
		reporter: r,
		ctx:      context.Background(),
		httpPort: httpPort,
	}
}

// NewMetricRegistryWithScope reports to an existing scope and cannot Serve.
func NewMetricRegistryWithScope(scope tally.Scope) *MetricsRegistry {
	return &MetricsRegistry{
		scope: scope,
		ctx:   context.Background(),
	}
}

func NewNoopMetricRegistry() *MetricsRegistry {
	return NewMetricRegistryWithScope(tally.NoopScope)
}

func (r *MetricsRegistry) TimeOperation(op string, f func() error) error {
	tags := map[string]string{"op": op}
	r.scope.Tagged(tags).Counter("operation_count").Inc(1)
	tsw := r.scope.Tagged(tags).Timer("operation_timer").Start()
	err := f()
	tsw.Stop()
	return err
}

func (r *MetricsRegistry) CountRejection(op string, reason string) {
	r.scope.Tagged(map[string]string{"op": op, "reason": reason}).Counter("operation_rejected").Inc(1)
}

func (r *MetricsRegistry) CountMembershipChange(op string) {
	r.scope.Tagged(map[string]string{"op": op}).Counter("membership_change").Inc(1)
}

func (r *MetricsRegistry) UpdateMemberCount(count int) {
	r.scope.Tagged(map[string]string{}).Gauge("member_count").Update(float64(count))
}

func (r *MetricsRegistry) TimeGRPCEndpoint(id string, f func() (interface{}, error)) (interface{}, error) {
	r.scope.Tagged(map[string]string{"id": id}).Counter("grpc_endpoint_count").Inc(1)
	tsw := r.scope.Tagged(map[string]string{"id": id}).Timer("grpc_endpoint_timer").Start()
	result, err := f()
	tsw.Stop()
	return result, err
}

func (r *MetricsRegistry) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer.Close()
}

func (r *MetricsRegistry) Serve() error {
	if r.reporter == nil {
		return fmt.Errorf("metrics registry has no prometheus reporter")
	}

	port := r.httpPort
	mux := http.NewServeMux()
	mux.Handle("/metrics", r.reporter.HTTPHandler())
	log.Infof(r.ctx, "Serving 0.0.0.0:%d/metrics", port)
	if err := http.ListenAndServe(fmt.Sprintf(":%d", port), mux); err != nil {
		return fmt.Errorf("unable to serve metrics: %v", err)
	}
	return nil
}
