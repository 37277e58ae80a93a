package snapshot

import (
	"encoding/json"
	"fmt"

	"github.com/julianstephens/questlog/internal/errors"
)

type object map[string]json.RawMessage

func (o object) hasAny(keys ...string) bool {
	for _, k := range keys {
		if _, ok := o[k]; ok {
			return true
		}
	}
	return false
}

// rename moves from to to unless to is already present.
func (o object) rename(from, to string) {
	v, ok := o[from]
	if !ok {
		return
	}
	delete(o, from)
	if _, exists := o[to]; !exists {
		o[to] = v
	}
}

const legacyDiaryKey = "diary"

// upgrades[v] turns a version v document into a version v+1 document.
var upgrades = map[int]func(json.RawMessage) (json.RawMessage, error){
	0: upgradeBareArray,
	1: upgradeLegacyFields,
}

// The first export format was a bare array of campaigns.
func upgradeBareArray(raw json.RawMessage) (json.RawMessage, error) {
	out, err := json.Marshal(object{campaignsKey: raw})
	if err != nil {
		return nil, errors.NewFormatError("cannot wrap campaign array", err)
	}
	return out, nil
}

var (
	campaignAliases = map[string]string{
		"nome":               "name",
		"descrizione":        "description",
		"dataCreazione":      "createdAt",
		"dataUltimaModifica": "updatedAt",
		"stato":              "status",
	}

	characterAliases = map[string]string{
		"nome":         "name",
		"classe":       "class",
		"razza":        "race",
		"livello":      "level",
		"hpAttuali":    "hpCurrent",
		"hpMassimi":    "hpMax",
		"forza":        "strength",
		"destrezza":    "dexterity",
		"costituzione": "constitution",
		"intelligenza": "intelligence",
		"saggezza":     "wisdom",
		"carisma":      "charisma",
		"allineamento": "alignment",
		"velocita":     "speed",
		"storia":       "backstory",
	}

	diaryAliases = map[string]string{
		"titolo":       "title",
		"dataSessione": "sessionDate",
		"testo":        "text",
	}

	statusAliases = map[string]string{
		"nuova":    "new",
		"in corso": "in-progress",
		"conclusa": "concluded",
	}
)

// Unversioned documents may still carry the field names of the first release.
func upgradeLegacyFields(raw json.RawMessage) (json.RawMessage, error) {
	var doc object
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, errors.NewFormatError("document is not an object", err)
	}
	doc.rename(legacyDiaryKey, diaryEntriesKey)

	steps := []struct {
		key     string
		aliases map[string]string
		fix     func(object) error
	}{
		{campaignsKey, campaignAliases, fixStatus},
		{charactersKey, characterAliases, nil},
		{diaryEntriesKey, diaryAliases, nil},
	}

	for _, step := range steps {
		raw, ok := doc[step.key]
		if !ok {
			continue
		}
		updated, err := renameFields(step.key, raw, step.aliases, step.fix)
		if err != nil {
			return nil, err
		}
		doc[step.key] = updated
	}

	doc[versionKey], _ = json.Marshal(CurrentVersion)
	out, err := json.Marshal(doc)
	if err != nil {
		return nil, errors.NewFormatError("cannot rebuild document", err)
	}
	return out, nil
}

func renameFields(collection string, raw json.RawMessage, aliases map[string]string, fix func(object) error) (json.RawMessage, error) {
	if string(raw) == "null" {
		return raw, nil
	}

	var records []object
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, errors.NewFormatError(fmt.Sprintf("%s must be an array of objects", collection), err)
	}

	for i, rec := range records {
		if rec == nil {
			return nil, errors.NewFormatError(fmt.Sprintf("%s[%d] is not an object", collection, i), nil)
		}
		for from, to := range aliases {
			rec.rename(from, to)
		}
		if fix != nil {
			if err := fix(rec); err != nil {
				return nil, errors.NewFormatError(fmt.Sprintf("%s[%d]", collection, i), err)
			}
		}
	}

	out, err := json.Marshal(records)
	if err != nil {
		return nil, errors.NewFormatError("cannot rebuild "+collection, err)
	}
	return out, nil
}

func fixStatus(rec object) error {
	raw, ok := rec["status"]
	if !ok {
		return nil
	}
	var status string
	if err := json.Unmarshal(raw, &status); err != nil {
		return fmt.Errorf("status is not a string: %w", err)
	}
	if mapped, ok := statusAliases[status]; ok {
		rec["status"], _ = json.Marshal(mapped)
	}
	return nil
}
