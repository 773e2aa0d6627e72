package config

import (
	"strings"

	"github.com/caedis/vsmod-updater/internal/policy"
)

// FieldType classifies the kind of value a config key accepts.
type FieldType string

const (
	FieldBool FieldType = "bool"
	FieldEnum FieldType = "enum"
	// FieldText accepts any non-blank string.
	FieldText FieldType = "text"
	// FieldList accepts a comma separated list, possibly empty.
	FieldList FieldType = "list"
)

// FieldDef describes one key of vsmd.cfg.
type FieldDef struct {
	Key         string
	Type        FieldType
	Description string
	Options     []string
}

const (
	KeyModPath              = "ModPath"
	KeyGameVersion          = "GameVersion"
	KeyAlwaysUpdate         = "AlwaysUpdate"
	KeyCanDowngrade         = "CanDowngrade"
	KeyAlwaysDownload       = "AlwaysDownload"
	KeyMissingVersion       = "MissingVersion"
	KeyMoveOlderToSubfolder = "MoveOlderToSubfolder"
	KeyExcludeMods          = "ExcludeMods"
)

// fields is the ordered key registry; the file is written in this order.
var fields = []FieldDef{
	{Key: KeyModPath, Type: FieldText, Description: "Folder containing the installed mod archives"},
	{Key: KeyGameVersion, Type: FieldText, Description: "Game version mods are matched against"},
	{Key: KeyAlwaysUpdate, Type: FieldBool, Description: "Prefer releases tagged for a newer game version"},
	{Key: KeyCanDowngrade, Type: FieldBool, Description: "Install a selected release older than the installed one"},
	{Key: KeyAlwaysDownload, Type: FieldBool, Description: "Reinstall the selected release even when already current"},
	{Key: KeyMissingVersion, Type: FieldEnum, Description: "What to do when no release matches the game version", Options: missingVersionLabels()},
	{Key: KeyMoveOlderToSubfolder, Type: FieldBool, Description: "Install releases for older game versions into a subfolder"},
	{Key: KeyExcludeMods, Type: FieldList, Description: "Mod ids never checked or updated"},
}

func missingVersionLabels() []string {
	var labels []string
	for _, m := range policy.MissingVersions() {
		labels = append(labels, m.String())
	}
	return labels
}

// Fields returns a copy of the key registry.
func Fields() []FieldDef {
	out := make([]FieldDef, len(fields))
	copy(out, fields)
	return out
}

// LookupField finds a key case-insensitively.
func LookupField(key string) (FieldDef, bool) {
	key = strings.TrimSpace(key)
	for _, f := range fields {
		if strings.EqualFold(f.Key, key) {
			return f, true
		}
	}
	return FieldDef{}, false
}

// Keys lists the known keys in file order.
func Keys() []string {
	keys := make([]string, len(fields))
	for i, f := range fields {
		keys[i] = f.Key
	}
	return keys
}
