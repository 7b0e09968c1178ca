// internal/autoproc/descriptor.go

// Package autoproc assembles the autoprocessing input descriptor and
// launches the external processing programs bound to collection events.
package autoproc

import (
	"encoding/xml"
	"fmt"

	"github.com/mxberg/beamline-bridge/internal/collect"
)

// CCHalfCutoff is the fixed quality cutoff written into every descriptor.
const CCHalfCutoff = 18.0

// The descriptor XML dialect is owned by the downstream processing
// pipeline; the nested value/path wrappers below reproduce it verbatim.

type xsString struct {
	Value string `xml:"value"`
}

type xsDouble struct {
	Value float64 `xml:"value"`
}

type xsInteger struct {
	Value int `xml:"value"`
}

type xsFile struct {
	Path xsString `xml:"path"`
}

// Descriptor is the autoprocessing input document. Write-once: built,
// serialized, discarded.
type Descriptor struct {
	XMLName          xml.Name  `xml:"XSDataAutoprocInput"`
	InputFile        xsFile    `xml:"input_file"`
	OutputFile       xsFile    `xml:"output_file"`
	DataCollectionID xsInteger `xml:"data_collection_id"`
	NResidues        *xsDouble `xml:"nres,omitempty"`
	SpaceGroup       *xsString `xml:"spacegroup,omitempty"`
	UnitCell         *xsString `xml:"unit_cell,omitempty"`
	CCHalfCutoff     xsDouble  `xml:"cc_half_cutoff"`
}

// NewDescriptor builds a descriptor from collection parameters.
// Crystallographic hints are copied only when supplied (non-empty,
// non-zero).
func NewDescriptor(p collect.Params, inputFile, outputFile string) *Descriptor {
	d := &Descriptor{
		InputFile:        xsFile{Path: xsString{Value: inputFile}},
		OutputFile:       xsFile{Path: xsString{Value: outputFile}},
		DataCollectionID: xsInteger{Value: p.CollectionID},
		CCHalfCutoff:     xsDouble{Value: CCHalfCutoff},
	}

	if p.Residues != 0 {
		d.NResidues = &xsDouble{Value: p.Residues}
	}
	if p.SpaceGroup != "" {
		d.SpaceGroup = &xsString{Value: p.SpaceGroup}
	}
	if p.UnitCell != "" {
		d.UnitCell = &xsString{Value: p.UnitCell}
	}

	return d
}

// Marshal serializes the descriptor with an XML header.
func (d *Descriptor) Marshal() ([]byte, error) {
	body, err := xml.MarshalIndent(d, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("autoproc: marshal descriptor: %w", err)
	}
	return append([]byte(xml.Header), append(body, '\n')...), nil
}
