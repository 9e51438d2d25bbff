package layout

import "fmt"

// PointAttributeDefinition is an immutable named, typed point attribute.
// The canonical attributes of LAS-style point clouds are defined as
// package variables (Position3D, Intensity, ...); the attribute name
// doubles as the semantic tag that identifies well-known attributes
// across layouts with differing datatypes.
type PointAttributeDefinition struct {
	name     string
	datatype PointAttributeDataType
}

// NewAttribute creates a custom attribute definition.
func NewAttribute(name string, datatype PointAttributeDataType) PointAttributeDefinition {
	return PointAttributeDefinition{name: name, datatype: datatype}
}

// Name returns the attribute name.
func (d PointAttributeDefinition) Name() string { return d.name }

// Datatype returns the attribute datatype.
func (d PointAttributeDefinition) Datatype() PointAttributeDataType { return d.datatype }

// Size returns the byte size of one value of the attribute.
func (d PointAttributeDefinition) Size() uint64 { return d.datatype.Size() }

// WithCustomDatatype returns a copy of the definition re-stamped with a
// different datatype. The name, and with it the attribute's semantics,
// is preserved, so converters between the two definitions remain
// available as long as the datatypes are convertible.
func (d PointAttributeDefinition) WithCustomDatatype(datatype PointAttributeDataType) PointAttributeDefinition {
	return PointAttributeDefinition{name: d.name, datatype: datatype}
}

func (d PointAttributeDefinition) String() string {
	return fmt.Sprintf("%s;%s", d.name, d.datatype)
}

// The canonical attribute set. Each definition carries the default
// datatype of the attribute; use WithCustomDatatype for layouts that
// store an attribute with a non-default type.
var (
	Position3D                  = PointAttributeDefinition{"Position3D", Vec3F64}
	Intensity                   = PointAttributeDefinition{"Intensity", U16}
	ReturnNumber                = PointAttributeDefinition{"ReturnNumber", U8}
	NumberOfReturns             = PointAttributeDefinition{"NumberOfReturns", U8}
	Classification              = PointAttributeDefinition{"Classification", U8}
	ClassificationFlags         = PointAttributeDefinition{"ClassificationFlags", U8}
	ScanAngleRank               = PointAttributeDefinition{"ScanAngleRank", I8}
	ScanAngle                   = PointAttributeDefinition{"ScanAngle", I16}
	GPSTime                     = PointAttributeDefinition{"GPSTime", F64}
	ColorRGB                    = PointAttributeDefinition{"ColorRGB", Vec3U16}
	NIR                         = PointAttributeDefinition{"NIR", U16}
	EdgeOfFlightLine            = PointAttributeDefinition{"EdgeOfFlightLine", U8}
	ScanDirectionFlag           = PointAttributeDefinition{"ScanDirectionFlag", U8}
	ScannerChannel              = PointAttributeDefinition{"ScannerChannel", U8}
	WavePacketDescriptorIndex   = PointAttributeDefinition{"WavePacketDescriptorIndex", U8}
	WaveformDataOffset          = PointAttributeDefinition{"WaveformDataOffset", U64}
	WaveformPacketSize          = PointAttributeDefinition{"WaveformPacketSize", U32}
	ReturnPointWaveformLocation = PointAttributeDefinition{"ReturnPointWaveformLocation", F32}
	WaveformParameters          = PointAttributeDefinition{"WaveformParameters", Vec3F32}
)

// builtinAttributes maps canonical attribute names to their default
// definitions, for tag lookup in struct-derived layouts.
var builtinAttributes = map[string]PointAttributeDefinition{
	Position3D.name:                  Position3D,
	Intensity.name:                   Intensity,
	ReturnNumber.name:                ReturnNumber,
	NumberOfReturns.name:             NumberOfReturns,
	Classification.name:              Classification,
	ClassificationFlags.name:         ClassificationFlags,
	ScanAngleRank.name:               ScanAngleRank,
	ScanAngle.name:                   ScanAngle,
	GPSTime.name:                     GPSTime,
	ColorRGB.name:                    ColorRGB,
	NIR.name:                         NIR,
	EdgeOfFlightLine.name:            EdgeOfFlightLine,
	ScanDirectionFlag.name:           ScanDirectionFlag,
	ScannerChannel.name:              ScannerChannel,
	WavePacketDescriptorIndex.name:   WavePacketDescriptorIndex,
	WaveformDataOffset.name:          WaveformDataOffset,
	WaveformPacketSize.name:          WaveformPacketSize,
	ReturnPointWaveformLocation.name: ReturnPointWaveformLocation,
	WaveformParameters.name:          WaveformParameters,
}
