package usecases

import (
	"sort"
	"strings"

	"ghgdeck/internal/core/domain"
)

// defaultIconExt is appended when a configured icon name carries no
// extension of its own.
const defaultIconExt = ".png"

// Icon atlas cell geometry. Markers anchor at their center.
const (
	iconWidth   = 128
	iconHeight  = 128
	iconAnchorY = 64
)

// defaultIconTable mirrors the icon assignments the dashboard shipped
// with before manifests carried an icons block. Keys are already
// canonical.
var defaultIconTable = domain.IconsConfig{
	BaseDir: "icons",
	Default: "manufacturing.jpg",
	BySubparts: map[string]string{
		"C":       "factory_C.jpg",
		"C,HH":    "CHH_furnace.jpg",
		"C,Q":     "CQ_tanks.jpg",
		"C,W":     "CW_clarifier.jpg",
		"C,S":     "CS_steel.jpg",
		"C,I":     "manufacturing.jpg",
		"C,II":    "manufacturing.jpg",
		"AA,C":    "paper.jpg",
		"DD":      "gas.jpg",
		"C,N":     "chemical.jpg",
		"TT":      "gas.jpg",
		"FF":      "coal.jpg",
		"D":       "power.jpg",
		"C,D":     "power.jpg",
		"C,G,PP":  "chemical.jpg",
		"C,H":     "cement.jpg",
		"C,TT":    "generation.jpg",
		"AA,C,TT": "paper.jpg",
	},
}

// NormalizeSubparts reduces a raw comma-separated subpart list to its
// canonical key: trimmed, upper-cased, de-duplicated, lexicographically
// sorted, comma-joined. The same function runs over config keys and
// facility properties, so lookup is invariant to input order, case,
// duplication, and incidental whitespace.
func NormalizeSubparts(raw string) string {
	seen := make(map[string]struct{})
	var codes []string
	for _, part := range strings.Split(raw, ",") {
		code := strings.ToUpper(strings.TrimSpace(part))
		if code == "" {
			continue
		}
		if _, dup := seen[code]; dup {
			continue
		}
		seen[code] = struct{}{}
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return strings.Join(codes, ",")
}

// IconResolver maps a facility's subpart list to an icon descriptor.
// Built once per manifest load, immutable afterwards. Resolve is total:
// any input falls back to the default descriptor.
type IconResolver struct {
	table      map[string]domain.IconDescriptor
	defaultIcn domain.IconDescriptor
}

// NewIconResolver builds the lookup table from the manifest icons
// block; a nil config falls back to the built-in table. Entries whose
// key normalizes to the empty string are dropped: an empty subpart list
// always resolves to the default, never to a dedicated entry.
func NewIconResolver(cfg *domain.IconsConfig) *IconResolver {
	if cfg == nil {
		cfg = &defaultIconTable
	}

	table := make(map[string]domain.IconDescriptor, len(cfg.BySubparts))
	for raw, name := range cfg.BySubparts {
		key := NormalizeSubparts(raw)
		if key == "" {
			continue
		}
		table[key] = iconDescriptor(cfg.BaseDir, name)
	}

	return &IconResolver{
		table:      table,
		defaultIcn: iconDescriptor(cfg.BaseDir, cfg.Default),
	}
}

// Resolve returns the icon descriptor for a facility's raw subpart
// string. Never fails; no match means the default descriptor.
func (r *IconResolver) Resolve(subparts string) domain.IconDescriptor {
	key := NormalizeSubparts(subparts)
	if key == "" {
		return r.defaultIcn
	}
	if icn, ok := r.table[key]; ok {
		return icn
	}
	return r.defaultIcn
}

// Default returns the fallback descriptor.
func (r *IconResolver) Default() domain.IconDescriptor {
	return r.defaultIcn
}

// Len returns the number of configured entries.
func (r *IconResolver) Len() int {
	return len(r.table)
}

func iconDescriptor(baseDir, name string) domain.IconDescriptor {
	file := name
	if !strings.Contains(file, ".") {
		file += defaultIconExt
	}
	url := file
	if baseDir != "" {
		url = strings.TrimSuffix(baseDir, "/") + "/" + file
	}
	return domain.IconDescriptor{
		URL:     url,
		Width:   iconWidth,
		Height:  iconHeight,
		AnchorY: iconAnchorY,
	}
}
