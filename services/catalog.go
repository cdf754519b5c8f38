package services

import (
	"errors"
	"fmt"
	"os"
	"strings"

	appContext "github.com/alphabatem/common/context"
	"github.com/lac-hong-legacy/engage_api/shared"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// CatalogService holds the fixed, ordered list of learning units. The order
// defines the unlock chain.
type CatalogService struct {
	appContext.DefaultService

	path  string
	units []string
	index map[string]int
}

const CATALOG_SVC = "catalog_svc"

var ErrUnknownUnit = errors.New("unknown unit")

type catalogFile struct {
	Units []string `yaml:"units"`
}

func (svc CatalogService) Id() string {
	return CATALOG_SVC
}

func (svc *CatalogService) Configure(ctx *appContext.Context) error {
	svc.path = shared.GetEnv("UNIT_CATALOG_PATH", "catalog.yaml")
	return svc.DefaultService.Configure(ctx)
}

func (svc *CatalogService) Start() error {
	units, err := LoadCatalogFile(svc.path)
	if err != nil {
		return err
	}
	if err := svc.setUnits(units); err != nil {
		return err
	}

	log.WithFields(log.Fields{"path": svc.path, "units": len(units)}).Info("Unit catalog loaded")
	return nil
}

func NewCatalogService(units []string) (*CatalogService, error) {
	svc := &CatalogService{}
	if err := svc.setUnits(units); err != nil {
		return nil, err
	}
	return svc, nil
}

// LoadCatalogFile reads a YAML document of the form `units: [id, ...]`.
func LoadCatalogFile(path string) ([]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read unit catalog: %w", err)
	}
	return ParseCatalog(raw)
}

func ParseCatalog(raw []byte) ([]string, error) {
	var file catalogFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse unit catalog: %w", err)
	}
	return file.Units, nil
}

func (svc *CatalogService) setUnits(units []string) error {
	if len(units) == 0 {
		return errors.New("unit catalog is empty")
	}

	clean := make([]string, 0, len(units))
	index := make(map[string]int, len(units))
	for i, id := range units {
		id = strings.TrimSpace(id)
		if id == "" {
			return fmt.Errorf("unit catalog entry %d is blank", i)
		}
		if _, dup := index[id]; dup {
			return fmt.Errorf("unit %q listed twice in catalog", id)
		}
		index[id] = i
		clean = append(clean, id)
	}

	svc.units = clean
	svc.index = index
	return nil
}

// Units returns a copy of the ordered unit ids.
func (svc *CatalogService) Units() []string {
	return append([]string(nil), svc.units...)
}

func (svc *CatalogService) Len() int {
	return len(svc.units)
}

func (svc *CatalogService) UnitIndex(unitID string) (int, bool) {
	i, ok := svc.index[unitID]
	return i, ok
}
