package services

import (
	"errors"
	"testing"
	"time"

	"github.com/Adembc/lazylaunch/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func webProtocol(name, url string) domain.ProtocolRecord {
	return domain.ProtocolRecord{Name: name, Endpoint: domain.WebEndpoint{URL: url}}
}

func TestRegistryService_AddProtocolCreatesHost(t *testing.T) {
	repo := newMemHostRepo()
	svc := NewRegistryService(zaptest.NewLogger(t).Sugar(), repo)

	require.NoError(t, svc.AddProtocol("wiki", webProtocol("", "https://wiki.example")))
	require.NoError(t, svc.AddProtocol("wiki", webProtocol("admin", "https://wiki.example/admin")))

	host, err := svc.Load("wiki")
	require.NoError(t, err)
	assert.Equal(t, []string{"web", "admin"}, host.Labels())
}

func TestRegistryService_AddProtocolRejectsIncompleteRecord(t *testing.T) {
	repo := newMemHostRepo()
	svc := NewRegistryService(zaptest.NewLogger(t).Sugar(), repo)

	err := svc.AddProtocol("db1", domain.ProtocolRecord{Endpoint: domain.SSHEndpoint{Host: "10.0.0.5", AuthMethod: domain.AuthPass}})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.False(t, repo.Exists("db1"))

	err = svc.AddProtocol("  ", webProtocol("", "https://example.com"))
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRegistryService_RemoveProtocolUntilGone(t *testing.T) {
	for n := 1; n <= 4; n++ {
		host := domain.HostRecord{Name: "multi"}
		for i := 0; i < n; i++ {
			host.Protocols = append(host.Protocols, webProtocol("", "https://example.com"))
		}
		repo := newMemHostRepo(host)
		svc := NewRegistryService(zaptest.NewLogger(t).Sugar(), repo)

		for i := 0; i < n; i++ {
			deleted, err := svc.RemoveProtocol("multi", 0)
			require.NoError(t, err)
			assert.Equal(t, i == n-1, deleted)
		}
		assert.False(t, repo.Exists("multi"), "host with %d protocols must be gone", n)
	}
}

func TestRegistryService_RemoveAllProtocols(t *testing.T) {
	repo := newMemHostRepo(domain.HostRecord{Name: "multi", Protocols: []domain.ProtocolRecord{
		webProtocol("a", "https://a.example"),
		webProtocol("b", "https://b.example"),
	}})
	svc := NewRegistryService(zaptest.NewLogger(t).Sugar(), repo)

	deleted, err := svc.RemoveProtocol("multi", AllProtocols)
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.False(t, repo.Exists("multi"))
}

func TestRegistryService_ReplaceProtocolKeepsStats(t *testing.T) {
	last := time.Date(2024, 12, 1, 8, 0, 0, 0, time.Local)
	old := webProtocol("docs", "https://old.example")
	old.ConnectionTimes = 7
	old.LastConnection = last
	repo := newMemHostRepo(domain.HostRecord{Name: "docs", Protocols: []domain.ProtocolRecord{old}})
	svc := NewRegistryService(zaptest.NewLogger(t).Sugar(), repo)

	require.NoError(t, svc.ReplaceProtocol("docs", 0, webProtocol("docs", "https://new.example")))

	got := repo.hosts["docs"].Protocols[0]
	assert.Equal(t, "https://new.example", got.Endpoint.Target())
	assert.Equal(t, 7, got.ConnectionTimes)
	assert.Equal(t, last, got.LastConnection)
}

func TestRegistryService_RecordUseSaveFailure(t *testing.T) {
	repo := newMemHostRepo(domain.HostRecord{Name: "site", Protocols: []domain.ProtocolRecord{webProtocol("", "https://example.com")}})
	repo.saveErr = errors.New("read-only file system")
	svc := NewRegistryService(zaptest.NewLogger(t).Sugar(), repo)

	host, _ := repo.Load("site")
	err := svc.RecordUse(&host, 0, fixedNow)
	require.Error(t, err)
}

type corruptOnLoad struct {
	*memHostRepo
	bad string
}

func (r corruptOnLoad) Load(name string) (domain.HostRecord, error) {
	if name == r.bad {
		return domain.HostRecord{}, domain.ErrCorruptData
	}
	return r.memHostRepo.Load(name)
}

func TestRegistryService_LoadAllSkipsCorruptHosts(t *testing.T) {
	repo := corruptOnLoad{
		memHostRepo: newMemHostRepo(
			domain.HostRecord{Name: "a", Protocols: []domain.ProtocolRecord{webProtocol("", "https://a.example")}},
			domain.HostRecord{Name: "b", Protocols: []domain.ProtocolRecord{webProtocol("", "https://b.example")}},
		),
		bad: "a",
	}
	svc := NewRegistryService(zaptest.NewLogger(t).Sugar(), repo)

	hosts, err := svc.LoadAll()
	require.NoError(t, err)
	require.Len(t, hosts, 1)
	assert.Equal(t, "b", hosts[0].Name)
}
