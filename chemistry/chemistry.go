// Copyright ©2012 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package chemistry implements the PacBio sequencing chemistry lookup
// table (spec §4.11, §6; SUPPLEMENTED FEATURES item 4), mapping a
// (BindingKit, SequencingKit, BasecallerVersion) triple to a chemistry
// name. Grounded on original_source/src/ChemistryTable.cpp.
package chemistry

import (
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
)

// Mapping is a single chemistry table row.
type Mapping struct {
	BindingKit        string `xml:"BindingKit"`
	SequencingKit     string `xml:"SequencingKit"`
	BasecallerVersion string `xml:"SoftwareVersion"`
	Chemistry         string `xml:"SequencingChemistry"`
}

// MappingTable is the XML document schema read from
// $SMRT_CHEMISTRY_BUNDLE_DIR/chemistry.xml.
type MappingTable struct {
	XMLName  xml.Name  `xml:"MappingTable"`
	Mappings []Mapping `xml:"Mapping"`
}

// Table is an ordered list of chemistry mappings, searched in order
// on Lookup (later built-in entries, e.g. software version bumps for
// the same kit pair, sit after earlier ones, but a loaded external
// table entirely replaces the built-in one).
type Table []Mapping

// builtIn is the table compiled into the PacBio toolchain, reproduced
// verbatim from ChemistryTable.cpp's BuiltInChemistryTable.
var builtIn = Table{
	{"100356300", "100356200", "2.1", "P6-C4"},
	{"100356300", "100356200", "2.3", "P6-C4"},
	{"100356300", "100612400", "2.1", "P6-C4"},
	{"100356300", "100612400", "2.3", "P6-C4"},
	{"100372700", "100356200", "2.1", "P6-C4"},
	{"100372700", "100356200", "2.3", "P6-C4"},
	{"100372700", "100612400", "2.1", "P6-C4"},
	{"100372700", "100612400", "2.3", "P6-C4"},

	{"100-619-300", "100-620-000", "3.0", "S/P1-C1/beta"},
	{"100-619-300", "100-620-000", "3.1", "S/P1-C1/beta"},

	{"100-619-300", "100-867-300", "3.1", "S/P1-C1.1"},
	{"100-619-300", "100-867-300", "3.2", "S/P1-C1.1"},
	{"100-619-300", "100-867-300", "3.3", "S/P1-C1.1"},

	{"100-619-300", "100-902-100", "3.1", "S/P1-C1.2"},
	{"100-619-300", "100-902-100", "3.2", "S/P1-C1.2"},
	{"100-619-300", "100-902-100", "3.3", "S/P1-C1.2"},
	{"100-619-300", "100-902-100", "4.0", "S/P1-C1.2"},
	{"100-619-300", "100-902-100", "4.1", "S/P1-C1.2"},

	{"100-619-300", "100-972-200", "3.2", "S/P1-C1.3"},
	{"100-619-300", "100-972-200", "3.3", "S/P1-C1.3"},
	{"100-619-300", "100-972-200", "4.0", "S/P1-C1.3"},
	{"100-619-300", "100-972-200", "4.1", "S/P1-C1.3"},

	{"100-862-200", "100-861-800", "4.0", "S/P2-C2"},
	{"100-862-200", "100-861-800", "4.1", "S/P2-C2"},
	{"100-862-200", "101-093-700", "4.1", "S/P2-C2"},

	{"100-862-200", "100-861-800", "5.0", "S/P2-C2/5.0"},
	{"100-862-200", "101-093-700", "5.0", "S/P2-C2/5.0"},
}

// bundleEnvVar is the environment variable naming a directory holding
// an overriding chemistry.xml (spec §6).
const bundleEnvVar = "SMRT_CHEMISTRY_BUNDLE_DIR"

// tableCache memoizes a loaded external table by its source directory,
// mirroring GetChemistryTableFromEnv's cache.
var tableCache = map[string]Table{}

// FromXML parses an external chemistry mapping table at path.
func FromXML(path string) (Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("chemistry: %s: %w", path, err)
	}
	defer f.Close()

	var doc MappingTable
	dec := xml.NewDecoder(f)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("chemistry: %s: unparseable XML: %w", path, err)
	}
	return Table(doc.Mappings), nil
}

// FromEnv returns the chemistry table named by SMRT_CHEMISTRY_BUNDLE_DIR,
// loading and caching it on first use, or the built-in table if the
// variable is unset or empty.
func FromEnv() (Table, error) {
	dir := os.Getenv(bundleEnvVar)
	if dir == "" {
		return builtIn, nil
	}
	if t, ok := tableCache[dir]; ok {
		return t, nil
	}
	t, err := FromXML(filepath.Join(dir, "chemistry.xml"))
	if err != nil {
		return nil, err
	}
	tableCache[dir] = t
	return t, nil
}

// LookupError reports a chemistry lookup miss, carrying the triple
// that was not found.
type LookupError struct {
	BindingKit, SequencingKit, BasecallerVersion string
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("chemistry: no chemistry found for binding kit %q, sequencing kit %q, basecaller version %q",
		e.BindingKit, e.SequencingKit, e.BasecallerVersion)
}

// Lookup returns the chemistry name for the given binding kit,
// sequencing kit and basecaller version, searching t in order and
// returning the first match's Chemistry, or a *LookupError if none
// match.
func (t Table) Lookup(bindingKit, sequencingKit, basecallerVersion string) (string, error) {
	for _, m := range t {
		if m.BindingKit == bindingKit && m.SequencingKit == sequencingKit && m.BasecallerVersion == basecallerVersion {
			return m.Chemistry, nil
		}
	}
	return "", &LookupError{bindingKit, sequencingKit, basecallerVersion}
}

// Lookup looks up the chemistry for the given triple in the table
// selected by FromEnv (the external override if configured, the
// built-in table otherwise).
func Lookup(bindingKit, sequencingKit, basecallerVersion string) (string, error) {
	t, err := FromEnv()
	if err != nil {
		return "", err
	}
	return t.Lookup(bindingKit, sequencingKit, basecallerVersion)
}
