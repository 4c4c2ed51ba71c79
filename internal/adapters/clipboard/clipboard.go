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

package clipboard

import (
	"fmt"

	"github.com/Adembc/lazylaunch/internal/core/domain"
	"github.com/Adembc/lazylaunch/internal/core/ports"
	"github.com/atotto/clipboard"
)

var _ ports.Clipboard = System{}

// System is the desktop clipboard (xclip, xsel or wl-copy underneath).
type System struct{}

func (System) WriteAll(text string) error {
	if clipboard.Unsupported {
		return fmt.Errorf("%w: no clipboard utility (xclip, xsel or wl-copy) found", domain.ErrMissingDependency)
	}
	return clipboard.WriteAll(text)
}
