package trace

import (
	"fmt"
	"io"

	opentracing "github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/uber/jaeger-client-go"
	jaegercfg "github.com/uber/jaeger-client-go/config"
)

// InitJaeger installs a Jaeger tracer, configured from the standard
// JAEGER_* environment variables, as the global OpenTracing tracer.
// serviceName is used unless JAEGER_SERVICE_NAME is set; without an
// explicit sampler every trace is kept. The returned closer flushes
// pending spans.
func InitJaeger(serviceName string, logger logrus.FieldLogger) (io.Closer, error) {
	cfg, err := jaegercfg.FromEnv()
	if err != nil {
		return nil, errors.Wrap(err, "reading jaeger config from environment")
	}
	if cfg.ServiceName == "" {
		cfg.ServiceName = serviceName
	}
	if cfg.Sampler == nil {
		cfg.Sampler = &jaegercfg.SamplerConfig{}
	}
	if cfg.Sampler.Type == "" {
		cfg.Sampler.Type = jaeger.SamplerTypeConst
		cfg.Sampler.Param = 1
	}

	tracer, closer, err := cfg.NewTracer(jaegercfg.Logger(jaegerLogger{logger}))
	if err != nil {
		return nil, errors.Wrap(err, "creating jaeger tracer")
	}
	opentracing.SetGlobalTracer(tracer)
	return closer, nil
}

type jaegerLogger struct {
	l logrus.FieldLogger
}

func (j jaegerLogger) Error(msg string) {
	j.l.WithField("component", "jaeger").Error(msg)
}

func (j jaegerLogger) Infof(msg string, args ...interface{}) {
	j.l.WithField("component", "jaeger").Info(fmt.Sprintf(msg, args...))
}
