package httpapi

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	certificationsIssued = promauto.NewCounter(prometheus.CounterOpts{
		Name: "truproof_certifications_issued_total",
		Help: "Certifications issued.",
	})

	certificationsRevoked = promauto.NewCounter(prometheus.CounterOpts{
		Name: "truproof_certifications_revoked_total",
		Help: "Certifications revoked.",
	})

	verifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "truproof_verifications_total",
		Help: "Verification page lookups by outcome.",
	}, []string{"result"})
)
