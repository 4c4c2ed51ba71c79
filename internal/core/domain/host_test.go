package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalHostRecord_NewSSHHost(t *testing.T) {
	host := HostRecord{
		Name: "db1",
		Protocols: []ProtocolRecord{{
			Endpoint: SSHEndpoint{Host: "10.0.0.5", Port: 22, AuthMethod: AuthPass, CredentialRef: "item-1"},
		}},
	}

	data, err := MarshalHostRecord(host)
	require.NoError(t, err)

	want := `{
    "protocols": [
        {
            "protocol": "ssh",
            "host": "10.0.0.5",
            "port": "22",
            "authMeth": "pass",
            "UserID": "item-1"
        }
    ]
}
`
	assert.Equal(t, want, string(data))
}

func TestHostRecord_RoundTrip(t *testing.T) {
	last := time.Date(2024, 3, 9, 18, 4, 5, 0, time.Local)
	host := HostRecord{
		Name: "office/gateway",
		Protocols: []ProtocolRecord{
			{
				Name:            "admin shell",
				ConnectionTimes: 4,
				LastConnection:  last,
				Endpoint: SSHEndpoint{
					Host: "gw.example.net", Port: 2222, AuthMethod: AuthKey,
					CredentialRef: "abc", KeyFile: "id_ed25519", Option: "-c aes128-cbc",
				},
			},
			{Endpoint: SSHEndpoint{Host: "gw.example.net", AuthMethod: AuthPass, CredentialRef: "abc"}},
			{Endpoint: VNCEndpoint{Host: "gw.example.net", AuthMethod: AuthPass, CredentialRef: "vnc"}},
			{Endpoint: RDPEndpoint{Host: "10.1.1.1", AuthMethod: AuthPass, CredentialRef: "win", SNIDomain: "corp.example"}},
			{Endpoint: RDPEndpoint{RDPFile: "saved.rdp", CredentialRef: "win"}},
			{Name: "panel", Endpoint: WebEndpoint{URL: "https://gw.example.net", Browser: "firefox --new-window"}},
		},
	}

	data, err := MarshalHostRecord(host)
	require.NoError(t, err)

	got, err := UnmarshalHostRecord("office/gateway", data)
	require.NoError(t, err)
	assert.Equal(t, host, got)
}

func TestUnmarshalHostRecord_AcceptsNumericPortAndMixedCase(t *testing.T) {
	doc := `{"protocols":[{"protocol":"SSH","host":"h","port":2200,"authMeth":"Pass","UserID":"x"}]}`
	host, err := UnmarshalHostRecord("h", []byte(doc))
	require.NoError(t, err)

	ssh, ok := host.Protocols[0].Endpoint.(SSHEndpoint)
	require.True(t, ok)
	assert.Equal(t, 2200, ssh.Port)
	assert.Equal(t, AuthPass, ssh.AuthMethod)
}

func TestUnmarshalHostRecord_Corrupt(t *testing.T) {
	cases := map[string]string{
		"not json":          `{"protocols": [`,
		"missing protocols": `{"hosts": []}`,
		"empty protocols":   `{"protocols": []}`,
		"unknown protocol":  `{"protocols":[{"protocol":"telnet","host":"h"}]}`,
		"ssh without host":  `{"protocols":[{"protocol":"ssh","authMeth":"pass","UserID":"x"}]}`,
		"ssh key no file":   `{"protocols":[{"protocol":"ssh","host":"h","authMeth":"key","UserID":"x"}]}`,
		"ssh bad auth":      `{"protocols":[{"protocol":"ssh","host":"h","authMeth":"otp","UserID":"x"}]}`,
		"ssh bad port":      `{"protocols":[{"protocol":"ssh","host":"h","port":"abc","authMeth":"pass","UserID":"x"}]}`,
		"vnc no user":       `{"protocols":[{"protocol":"vnc","host":"h"}]}`,
		"rdp no target":     `{"protocols":[{"protocol":"rdp","UserID":"x"}]}`,
		"web no url":        `{"protocols":[{"protocol":"web"}]}`,
		"bad timestamp":     `{"protocols":[{"protocol":"web","url":"u","LastConnection":"yesterday"}]}`,
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := UnmarshalHostRecord("h", []byte(doc))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrCorruptData), "got %v", err)
		})
	}
}

func TestMarshalHostRecord_RejectsEmptyHost(t *testing.T) {
	_, err := MarshalHostRecord(HostRecord{Name: "ghost"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidInput), "got %v", err)
}

func TestHostRecord_LabelsAndIndexOf(t *testing.T) {
	host := HostRecord{Protocols: []ProtocolRecord{
		{Endpoint: SSHEndpoint{Host: "h", AuthMethod: AuthPass, CredentialRef: "a"}},
		{Name: "console", Endpoint: VNCEndpoint{Host: "h", CredentialRef: "b"}},
		{Endpoint: SSHEndpoint{Host: "h", Port: 2222, AuthMethod: AuthPass, CredentialRef: "c"}},
	}}

	assert.Equal(t, []string{"ssh", "console", "ssh"}, host.Labels())

	idx, ok := host.IndexOf("ssh")
	require.True(t, ok)
	assert.Equal(t, 0, idx)

	idx, ok = host.IndexOf("console")
	require.True(t, ok)
	assert.Equal(t, 1, idx)

	_, ok = host.IndexOf("rdp")
	assert.False(t, ok)
}

func TestProtocolRecord_RecordUse(t *testing.T) {
	p := ProtocolRecord{Endpoint: WebEndpoint{URL: "https://example.com"}}
	now := time.Date(2025, 1, 2, 3, 4, 5, 987654321, time.Local)

	for i := 0; i < 3; i++ {
		p.RecordUse(now)
	}

	assert.Equal(t, 3, p.ConnectionTimes)
	assert.Equal(t, time.Date(2025, 1, 2, 3, 4, 5, 0, time.Local), p.LastConnection)
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, ExitOK, ExitCode(nil))
	assert.Equal(t, ExitOK, ExitCode(ErrMenuAborted))
	assert.Equal(t, ExitCorruptData, ExitCode(corruptf("broken")))
	assert.Equal(t, ExitAuth, ExitCode(errors.Join(ErrAuth, errors.New("rejected"))))
	assert.Equal(t, ExitFailure, ExitCode(errors.New("boom")))
	assert.Contains(t, Describe(ErrVaultUnavailable), "vault")
}
