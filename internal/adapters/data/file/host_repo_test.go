package file

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/Adembc/lazylaunch/internal/core/domain"
)

func sshHost(name, ip string) domain.HostRecord {
	return domain.HostRecord{
		Name: name,
		Protocols: []domain.ProtocolRecord{{
			Endpoint: domain.SSHEndpoint{Host: ip, Port: 22, AuthMethod: domain.AuthPass, CredentialRef: "item-" + name},
		}},
	}
}

func newTestRepo(t *testing.T) *hostRepo {
	t.Helper()
	return NewHostRepo(zaptest.NewLogger(t).Sugar(), t.TempDir())
}

func TestHostRepo_SaveLoadRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	host := sshHost("db1", "10.0.0.5")

	require.NoError(t, repo.Save(host))
	assert.True(t, repo.Exists("db1"))

	data, err := os.ReadFile(filepath.Join(repo.Root(), "db1.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"protocols": [`)

	got, err := repo.Load("db1")
	require.NoError(t, err)
	assert.Equal(t, host, got)
}

func TestHostRepo_SaveCreatesParentDirectories(t *testing.T) {
	repo := newTestRepo(t)

	require.NoError(t, repo.Save(sshHost("lab/rack2/switch", "10.2.0.1")))

	_, err := os.Stat(filepath.Join(repo.Root(), "lab", "rack2", "switch.json"))
	require.NoError(t, err)
}

func TestHostRepo_ListHostsSortedAndRecursive(t *testing.T) {
	repo := newTestRepo(t)
	for _, name := range []string{"web", "lab/b", "alpha", "lab/a"} {
		require.NoError(t, repo.Save(sshHost(name, "10.0.0.1")))
	}
	require.NoError(t, os.WriteFile(filepath.Join(repo.Root(), "notes.txt"), []byte("x"), 0o600))

	hosts, err := repo.ListHosts()
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "lab/a", "lab/b", "web"}, hosts)
}

func TestHostRepo_ListHostsMissingRoot(t *testing.T) {
	repo := NewHostRepo(zaptest.NewLogger(t).Sugar(), filepath.Join(t.TempDir(), "absent"))

	_, err := repo.ListHosts()
	assert.True(t, errors.Is(err, domain.ErrMissingDirectory))
}

func TestHostRepo_LoadErrors(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.Load("ghost")
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	require.NoError(t, os.WriteFile(filepath.Join(repo.Root(), "broken.json"), []byte(`{"protocols": 12}`), 0o600))
	_, err = repo.Load("broken")
	assert.True(t, errors.Is(err, domain.ErrCorruptData))

	_, err = repo.Load("../outside")
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestHostRepo_Delete(t *testing.T) {
	repo := newTestRepo(t)
	require.NoError(t, repo.Save(sshHost("db1", "10.0.0.5")))

	require.NoError(t, repo.Delete("db1"))
	assert.False(t, repo.Exists("db1"))

	err := repo.Delete("db1")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestHostRepo_SaveRejectsHostWithoutProtocols(t *testing.T) {
	repo := newTestRepo(t)

	err := repo.Save(domain.HostRecord{Name: "ghost"})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
	assert.False(t, repo.Exists("ghost"))

	require.NoError(t, os.WriteFile(filepath.Join(repo.Root(), "empty.json"), []byte(`{"protocols": []}`), 0o600))
	_, err = repo.Load("empty")
	assert.True(t, errors.Is(err, domain.ErrCorruptData))
}

func TestHostRepo_SaveLeavesNoTemporaryFiles(t *testing.T) {
	repo := newTestRepo(t)
	require.NoError(t, repo.Save(sshHost("db1", "10.0.0.5")))
	require.NoError(t, repo.Save(sshHost("db1", "10.0.0.6")))

	entries, err := os.ReadDir(repo.Root())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "db1.json", entries[0].Name())
}

func TestHostRepo_ConcurrentReaderNeverSeesPartialDocument(t *testing.T) {
	repo := newTestRepo(t)

	big := domain.HostRecord{Name: "big"}
	for i := 0; i < 200; i++ {
		big.Protocols = append(big.Protocols, domain.ProtocolRecord{
			Name:     "console",
			Endpoint: domain.WebEndpoint{URL: "https://example.com/a/rather/long/path/to/make/the/document/large"},
		})
	}
	require.NoError(t, repo.Save(big))

	var wg sync.WaitGroup
	stop := make(chan struct{})
	readErrs := make(chan error, 1)

	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-stop:
				return
			default:
			}
			if _, err := repo.Load("big"); err != nil {
				select {
				case readErrs <- err:
				default:
				}
				return
			}
		}
	}()

	for i := 0; i < 50; i++ {
		big.Protocols[0].ConnectionTimes = i + 1
		require.NoError(t, repo.Save(big))
	}
	close(stop)
	wg.Wait()

	select {
	case err := <-readErrs:
		t.Fatalf("reader observed a partial document: %v", err)
	default:
	}
}
