package hcl

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"

	"github.com/apsbeam/beamglue/internal/config"
	"github.com/apsbeam/beamglue/internal/ctxlog"
	"github.com/apsbeam/beamglue/internal/schema"
)

// Loader reads HCL device manifests. It is stateless and safe to reuse
// across manifests.
type Loader struct{}

// NewLoader creates a new HCL manifest loader.
func NewLoader() *Loader {
	return &Loader{}
}

// LoadFile parses and translates a single manifest file. Manifests are pure
// data: attribute expressions are evaluated with no variables in scope, so
// only literal values are legal.
func (l *Loader) LoadFile(ctx context.Context, path string) (*config.Manifest, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Decoding device manifest file.", "path", path)

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse manifest file %s: %s", path, diags.Error())
	}

	var mc schema.ManifestConfig
	if diags := gohcl.DecodeBody(file.Body, nil, &mc); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode manifest file %s: %s", path, diags.Error())
	}

	manifest := &config.Manifest{Path: path}
	for _, g := range mc.Devices {
		group := &config.DeviceGroup{Factory: g.Factory}
		for _, inst := range g.Instances {
			spec, err := l.translateInstance(inst)
			if err != nil {
				return nil, fmt.Errorf("manifest %s, factory %q: %w", path, g.Factory, err)
			}
			group.Instances = append(group.Instances, spec)
		}
		manifest.Groups = append(manifest.Groups, group)
	}

	logger.Debug("Successfully decoded manifest file.",
		"path", path, "groups", len(manifest.Groups))
	return manifest, nil
}

// translateInstance converts an instance block into the agnostic spec,
// splitting the well-known `labels` attribute out of the parameter map.
func (l *Loader) translateInstance(s *schema.Instance) (*config.InstanceSpec, error) {
	attrs, diags := s.Body.JustAttributes()
	if diags.HasErrors() {
		return nil, fmt.Errorf("instance %q: %s", s.Name, diags.Error())
	}

	spec := &config.InstanceSpec{Name: s.Name, Params: make(map[string]cty.Value)}
	for name, attr := range attrs {
		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return nil, fmt.Errorf("instance %q, parameter %q: %s", s.Name, name, diags.Error())
		}
		switch name {
		case "name":
			// The block label is the name; a name attribute would allow the
			// two to disagree.
			return nil, fmt.Errorf("instance %q: 'name' is given by the block label, not an attribute", s.Name)
		case "labels":
			labels, err := decodeLabels(val)
			if err != nil {
				return nil, fmt.Errorf("instance %q: labels: %w", s.Name, err)
			}
			spec.Labels = labels
		default:
			spec.Params[name] = val
		}
	}
	return spec, nil
}

func decodeLabels(val cty.Value) ([]string, error) {
	listVal, err := convert.Convert(val, cty.List(cty.String))
	if err != nil {
		return nil, fmt.Errorf("must be a list of strings: %w", err)
	}
	var labels []string
	for it := listVal.ElementIterator(); it.Next(); {
		_, v := it.Element()
		labels = append(labels, v.AsString())
	}
	return labels, nil
}
