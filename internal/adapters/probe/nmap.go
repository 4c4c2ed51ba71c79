// Copyright 2025.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package probe

import (
	"bufio"
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"

	"github.com/Adembc/lazylaunch/internal/core/domain"
	"github.com/Adembc/lazylaunch/internal/core/ports"
	"go.uber.org/zap"
)

var _ ports.AlgorithmScanner = (*NmapScanner)(nil)

const enumScript = "ssh2-enum-algos"

// scriptTables maps the nmap table keys to algorithm categories.
var scriptTables = map[string]domain.AlgorithmCategory{
	"encryption_algorithms": domain.AlgorithmCipher,
	"kex_algorithms":        domain.AlgorithmKex,
	"mac_algorithms":        domain.AlgorithmMAC,
}

type nmapRun struct {
	Hosts []struct {
		Ports []struct {
			PortID  string       `xml:"portid,attr"`
			Scripts []nmapScript `xml:"script"`
		} `xml:"ports>port"`
	} `xml:"host"`
}

type nmapScript struct {
	ID     string `xml:"id,attr"`
	Tables []struct {
		Key   string   `xml:"key,attr"`
		Elems []string `xml:"elem"`
	} `xml:"table"`
}

// NmapScanner asks nmap what a server offers and ssh what the client supports.
type NmapScanner struct {
	runner ports.ProcessRunner
	logger *zap.SugaredLogger
}

func NewNmapScanner(logger *zap.SugaredLogger, runner ports.ProcessRunner) *NmapScanner {
	return &NmapScanner{runner: runner, logger: logger}
}

func (s *NmapScanner) Scan(ctx context.Context, host string, port int) (domain.AlgorithmOffer, error) {
	argv := []string{"nmap", "--script", enumScript, "-sV", "-p", strconv.Itoa(port), "-oX", "-", host}
	s.logger.Debugw("scanning ssh algorithms", "host", host, "port", port)

	out, err := s.runner.Output(ctx, nil, argv)
	if err != nil {
		return nil, fmt.Errorf("%w: nmap %s:%d: %v", domain.ErrProbe, host, port, err)
	}
	return ParseNmapXML(out)
}

// ParseNmapXML extracts the algorithm tables of the ssh2-enum-algos script.
// Tables are found by key, so their order in the report does not matter.
func ParseNmapXML(data []byte) (domain.AlgorithmOffer, error) {
	var run nmapRun
	if err := xml.Unmarshal(data, &run); err != nil {
		return nil, fmt.Errorf("%w: parse nmap report: %v", domain.ErrProbe, err)
	}

	for _, h := range run.Hosts {
		for _, p := range h.Ports {
			for _, script := range p.Scripts {
				if script.ID != enumScript {
					continue
				}
				offer := domain.AlgorithmOffer{}
				for _, t := range script.Tables {
					if category, ok := scriptTables[t.Key]; ok {
						offer[category] = trimAll(t.Elems)
					}
				}
				return offer, nil
			}
		}
	}
	return nil, fmt.Errorf("%w: nmap report has no %s result", domain.ErrProbe, enumScript)
}

// Supported lists what the local ssh client offers in category, one per line.
func (s *NmapScanner) Supported(ctx context.Context, category domain.AlgorithmCategory) ([]string, error) {
	out, err := s.runner.Output(ctx, nil, []string{"ssh", "-Q", string(category)})
	if err != nil {
		return nil, fmt.Errorf("%w: ssh -Q %s: %v", domain.ErrProbe, category, err)
	}

	var algos []string
	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			algos = append(algos, line)
		}
	}
	return algos, scanner.Err()
}

func trimAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
