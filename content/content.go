// Package content embeds the default game catalogues: item bases, zones,
// and the enemy loot table.
package content

import _ "embed"

// Items is the default base item catalogue.
//
//go:embed items.yaml
var Items []byte

// Zones is the default zone catalogue, ordered from first to last.
//
//go:embed zones.yaml
var Zones []byte

// Loot is the default loot table rolled on every enemy defeat.
//
//go:embed loot.yaml
var Loot []byte
