package encoding

import (
	"encoding/xml"
	"fmt"
	"io"

	"github.com/bnema/virtdock/internal/domain"
)

type xmlDomain struct {
	XMLName       xml.Name  `xml:"domain"`
	Type          string    `xml:"type,attr"`
	Name          string    `xml:"name"`
	UUID          string    `xml:"uuid"`
	Memory        xmlMemory `xml:"memory"`
	CurrentMemory xmlMemory `xml:"currentMemory"`
	Vcpu          xmlVcpu   `xml:"vcpu"`
	OS            xmlOS     `xml:"os"`
	Clock         xmlClock  `xml:"clock"`
	OnPoweroff    string    `xml:"on_poweroff"`
	OnReboot      string    `xml:"on_reboot"`
	OnCrash       string    `xml:"on_crash"`
}

type xmlMemory struct {
	Unit  string `xml:"unit,attr"`
	Value uint64 `xml:",chardata"`
}

// xmlVcpu carries the maximum as text; current is only written when it differs.
type xmlVcpu struct {
	Current *uint `xml:"current,attr,omitempty"`
	Max     uint  `xml:",chardata"`
}

type xmlOS struct {
	Type     string      `xml:"type"`
	Init     string      `xml:"init,omitempty"`
	InitArgs []string    `xml:"initarg"`
	InitEnv  []xmlEnvVar `xml:"initenv"`
}

type xmlEnvVar struct {
	Name  string `xml:"name,attr"`
	Value string `xml:",chardata"`
}

type xmlClock struct {
	Offset string `xml:"offset,attr"`
}

// XMLEncoder renders libvirt domain XML.
type XMLEncoder struct{}

func (XMLEncoder) Format() string      { return "xml" }
func (XMLEncoder) ContentType() string { return "application/xml" }

// Encode writes def as a <domain> document.
func (XMLEncoder) Encode(w io.Writer, def *domain.Definition) error {
	def = withIdentity(def)

	doc := xmlDomain{
		Type:          string(def.VirtType),
		Name:          def.Name,
		UUID:          def.UUID,
		Memory:        xmlMemory{Unit: "KiB", Value: def.MemoryTotalKiB},
		CurrentMemory: xmlMemory{Unit: "KiB", Value: def.CurrentBalloonKiB},
		Vcpu:          xmlVcpu{Max: def.MaxVcpus},
		OS: xmlOS{
			Type:     string(def.OS.Type),
			Init:     def.OS.Init,
			InitArgs: def.OS.InitArgs,
		},
		Clock:      xmlClock{Offset: string(def.Clock.Offset)},
		OnPoweroff: string(def.OnPoweroff),
		OnReboot:   string(def.OnReboot),
		OnCrash:    string(def.OnCrash),
	}
	if def.Vcpus != def.MaxVcpus {
		current := def.Vcpus
		doc.Vcpu.Current = &current
	}
	for _, env := range def.OS.InitEnv {
		doc.OS.InitEnv = append(doc.OS.InitEnv, xmlEnvVar{Name: env.Name, Value: env.Value})
	}

	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode domain XML: %w", err)
	}
	_, err := io.WriteString(w, "\n")
	return err
}
