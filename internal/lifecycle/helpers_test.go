package lifecycle

import (
	"bytes"
	"net/http"
	"testing"
	"time"

	"github.com/aryan0dhankhar/allocdesk/internal/domain"
	"github.com/aryan0dhankhar/allocdesk/internal/gateway"
	"github.com/aryan0dhankhar/allocdesk/internal/gateway/gatewaytest"
	"github.com/aryan0dhankhar/allocdesk/internal/infrastructure/logger"
	"github.com/aryan0dhankhar/allocdesk/internal/resolver"
	"github.com/aryan0dhankhar/allocdesk/internal/security/audit"
	"github.com/aryan0dhankhar/allocdesk/pkg/cache"
)

var testSession = domain.Session{
	Cookies: []*http.Cookie{{Name: "token", Value: "opaque"}},
	Email:   "mia@corp.io",
	Name:    "Mia Chen",
}

// idTable answers getEmpIdByName / getProjIdByName from a map; unknown names
// resolve to 0.
func idTable(ids map[string]int64) gatewaytest.HandlerFunc {
	return func(req gateway.Request) (any, error) {
		return ids[req.Qualifier], nil
	}
}

func newDeps(t *testing.T, api *gatewaytest.Fake) (Deps, *bytes.Buffer) {
	t.Helper()
	var auditBuf bytes.Buffer
	log := logger.Discard()
	return Deps{
		API:       api,
		Resolver:  resolver.New(api, log),
		Directory: resolver.NewDirectory(api, cache.New(), time.Minute, log),
		Session:   testSession,
		Audit:     audit.NewLogger(logger.NewWithWriter(&auditBuf, "info")),
		Logger:    log,
	}, &auditBuf
}

func standardAPI() *gatewaytest.Fake {
	return gatewaytest.New().
		On(domain.KindAllocation, domain.GetEmpIDByName, idTable(map[string]int64{"Jane Doe": 12, "Ann Lee": 5, "Mia Chen": 2})).
		On(domain.KindAllocation, domain.GetProjIDByName, idTable(map[string]int64{"Apollo": 7, "Gemini": 8}))
}
