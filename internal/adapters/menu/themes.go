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

package menu

import (
	_ "embed"
	"fmt"
	"os"
	"sort"

	"github.com/Adembc/lazylaunch/internal/core/domain"
	"github.com/BurntSushi/toml"
)

//go:embed themes.toml
var builtinThemes string

const DefaultThemeName = "Default"

// Theme is the look of dmenu-style pickers.
type Theme struct {
	Font               string `toml:"font"`
	NormalBackground   string `toml:"normal_background"`
	NormalForeground   string `toml:"normal_foreground"`
	SelectedBackground string `toml:"selected_background"`
	SelectedForeground string `toml:"selected_foreground"`
	Lines              string `toml:"lines"`
}

type themeFile struct {
	Themes map[string]Theme `toml:"themes"`
}

// Themes is the set of named picker themes.
type Themes map[string]Theme

// LoadThemes returns the built-in themes merged with userPath. A missing user
// file is not an error. Empty fields of a user theme are inherited from the
// built-in theme of the same name, or from Default.
func LoadThemes(userPath string) (Themes, error) {
	var base themeFile
	if _, err := toml.Decode(builtinThemes, &base); err != nil {
		return nil, fmt.Errorf("decode built-in themes: %w", err)
	}
	themes := Themes(base.Themes)

	if userPath == "" {
		return themes, nil
	}
	if _, err := os.Stat(userPath); os.IsNotExist(err) {
		return themes, nil
	}

	var user themeFile
	if _, err := toml.DecodeFile(userPath, &user); err != nil {
		return nil, fmt.Errorf("%w: themes %s: %v", domain.ErrCorruptData, userPath, err)
	}
	for name, t := range user.Themes {
		parent, ok := themes[name]
		if !ok {
			parent = themes[DefaultThemeName]
		}
		themes[name] = t.inherit(parent)
	}
	return themes, nil
}

// Get returns the named theme.
func (t Themes) Get(name string) (Theme, error) {
	if name == "" {
		name = DefaultThemeName
	}
	theme, ok := t[name]
	if !ok {
		return Theme{}, fmt.Errorf("%w: unknown theme %q (known: %v)", domain.ErrInvalidInput, name, t.Names())
	}
	return theme, nil
}

func (t Themes) Names() []string {
	names := make([]string, 0, len(t))
	for name := range t {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (t Theme) inherit(parent Theme) Theme {
	pick := func(own, fallback string) string {
		if own != "" {
			return own
		}
		return fallback
	}
	return Theme{
		Font:               pick(t.Font, parent.Font),
		NormalBackground:   pick(t.NormalBackground, parent.NormalBackground),
		NormalForeground:   pick(t.NormalForeground, parent.NormalForeground),
		SelectedBackground: pick(t.SelectedBackground, parent.SelectedBackground),
		SelectedForeground: pick(t.SelectedForeground, parent.SelectedForeground),
		Lines:              pick(t.Lines, parent.Lines),
	}
}
