package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
)

var (
	LoginSuccessTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "utsavia_auth_logins_success_total",
		Help: "Total number of successful password logins.",
	})
	LoginFailureTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "utsavia_auth_logins_failure_total",
		Help: "Total number of failed password logins.",
	})
	UserRegisteredTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "utsavia_auth_users_registered_total",
		Help: "Total number of users registered.",
	})
	GoogleLoginTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "utsavia_auth_google_logins_total",
		Help: "Total number of completed Google logins.",
	})
	TokensIssuedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "utsavia_auth_tokens_issued_total",
		Help: "Total number of bearer tokens issued.",
	})
)

// Register registers the auth metrics with the given registerer. It should be
// called once at application startup.
func Register(reg prometheus.Registerer) {
	if reg == nil {
		return
	}
	collectors := []prometheus.Collector{
		LoginSuccessTotal,
		LoginFailureTotal,
		UserRegisteredTotal,
		GoogleLoginTotal,
		TokensIssuedTotal,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			log.Warn().Err(err).Msg("Failed to register auth metric")
		}
	}
}
