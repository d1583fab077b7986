package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"alfredoramos.mx/rescue-reporter/models"
	"alfredoramos.mx/rescue-reporter/utils"
	"gopkg.in/yaml.v3"
)

type NgoRegistrar interface {
	Register(ctx context.Context, n *models.Ngo) error
}

type ngoSeedFile struct {
	Ngos []models.Ngo `yaml:"ngos"`
}

func LoadNgos(filename string) ([]models.Ngo, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	f := ngoSeedFile{}
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("Could not decode NGO seed file: %w", err)
	}

	return f.Ngos, nil
}

// SeedNgos registers the NGOs listed in the seed file. A missing file is not
// an error, and invalid entries are skipped.
func SeedNgos(ctx context.Context, r NgoRegistrar, filename string) (int, error) {
	ngos, err := LoadNgos(filename)
	if errors.Is(err, os.ErrNotExist) {
		slog.Warn(fmt.Sprintf("NGO seed file '%s' does not exist.", filename))
		return 0, nil
	}

	if err != nil {
		return 0, err
	}

	count := 0

	for i := range ngos {
		n := ngos[i]
		n.Name = strings.TrimSpace(n.Name)
		n.Phone = strings.TrimSpace(n.Phone)
		n.Email = optionalString(n.Email)
		n.Whatsapp = optionalString(n.Whatsapp)
		n.Address = optionalString(n.Address)

		if err := r.Register(ctx, &n); err != nil {
			slog.Error(fmt.Sprintf("Could not register NGO '%s': %v", n.Name, err))
			continue
		}

		count++
	}

	return count, nil
}

// Blank optional contacts are stored as NULL.
func optionalString(s *string) *string {
	if s == nil {
		return nil
	}

	return utils.ToStringPtr(*s)
}
