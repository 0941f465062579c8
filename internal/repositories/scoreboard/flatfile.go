package scoreboard

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/streamlot/giveabot/internal/models"
	"go.uber.org/zap"
)

// Column order of the persisted scoreboard file. The file is plain text,
// space-delimited with minimal quoting, and safe to edit by hand between runs.
var fileHeader = []string{"name", "luck", "tier", "lifetime", "roundsSinceWin", "userId"}

// Config holds configuration for the flat-file scoreboard repository
type Config struct {
	// Path to the scoreboard file
	Path string

	// Logger for parse warnings
	Logger *zap.Logger
}

// flatFileRepository implements the Repository interface on a flat file
type flatFileRepository struct {
	path   string
	logger *zap.Logger
}

// NewFlatFile creates a new flat-file scoreboard repository
func NewFlatFile(cfg *Config) (*flatFileRepository, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.Path == "" {
		return nil, errors.New("path cannot be empty")
	}

	if cfg.Logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	return &flatFileRepository{
		path:   cfg.Path,
		logger: cfg.Logger,
	}, nil
}

// LoadRecords reads every persisted user record. A missing file is an empty
// scoreboard. Malformed rows are skipped with a warning, never fatal.
func (r *flatFileRepository) LoadRecords(_ context.Context) (*LoadRecordsOutput, error) {
	records := make(map[string]*models.UserRecord)

	file, err := os.Open(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return &LoadRecordsOutput{Records: records}, nil
		}
		return nil, fmt.Errorf("failed to open scoreboard file %q: %w", r.path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.Comma = ' '
	reader.FieldsPerRecord = -1

	// Rows are read one at a time: a quoting error left by a hand edit
	// poisons only its own line, and the reader resumes at the next one.
	for line := 1; ; line++ {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			r.logger.Warn("skipping malformed scoreboard row",
				zap.String("path", r.path),
				zap.Int("line", line),
				zap.Error(err))
			continue
		}

		// Tolerate a header row wherever a manual edit left it
		if isHeaderRow(row) {
			continue
		}

		record, err := parseRow(row)
		if err != nil {
			r.logger.Warn("skipping malformed scoreboard row",
				zap.String("path", r.path),
				zap.Int("line", line),
				zap.Error(err))
			continue
		}

		records[record.Name] = record
	}

	return &LoadRecordsOutput{Records: records}, nil
}

// SaveRecords atomically replaces the scoreboard file. Records are written
// sorted by luck descending, then name, so saves are deterministic.
func (r *flatFileRepository) SaveRecords(_ context.Context, input *SaveRecordsInput) error {
	if input == nil || input.Records == nil {
		return errors.New("input and records cannot be nil")
	}

	sorted := make([]*models.UserRecord, 0, len(input.Records))
	for _, record := range input.Records {
		sorted = append(sorted, record)
	}
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Luck != sorted[j].Luck {
			return sorted[i].Luck > sorted[j].Luck
		}
		return sorted[i].Name < sorted[j].Name
	})

	tmp, err := os.CreateTemp(filepath.Dir(r.path), ".scoreboard-*")
	if err != nil {
		return fmt.Errorf("failed to create temp scoreboard file: %w", err)
	}
	defer os.Remove(tmp.Name())

	writer := csv.NewWriter(tmp)
	writer.Comma = ' '

	if err := writer.Write(fileHeader); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write scoreboard header: %w", err)
	}

	for _, record := range sorted {
		row := []string{
			record.Name,
			strconv.Itoa(record.Luck),
			strconv.Itoa(record.TierBonus),
			strconv.Itoa(record.LifetimeEntries),
			strconv.Itoa(record.RoundsSinceWin),
			record.UserID,
		}
		if err := writer.Write(row); err != nil {
			tmp.Close()
			return fmt.Errorf("failed to write scoreboard row for %q: %w", record.Name, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to flush scoreboard file: %w", err)
	}

	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync scoreboard file: %w", err)
	}

	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close scoreboard file: %w", err)
	}

	if err := os.Rename(tmp.Name(), r.path); err != nil {
		return fmt.Errorf("failed to replace scoreboard file %q: %w", r.path, err)
	}

	return nil
}

// isHeaderRow matches the full header, not just the first field, so a
// chatter whose login is literally "name" keeps their record.
func isHeaderRow(row []string) bool {
	if len(row) != len(fileHeader) {
		return false
	}
	for i, field := range row {
		if field != fileHeader[i] {
			return false
		}
	}
	return true
}

// parseRow turns one file row into a record. Rows carry at least the five
// numeric-bearing columns; the user id column may be absent or empty because
// ids are resolved lazily.
func parseRow(row []string) (*models.UserRecord, error) {
	if len(row) < 5 {
		return nil, fmt.Errorf("expected at least 5 fields, got %d", len(row))
	}

	name := strings.ToLower(strings.TrimSpace(row[0]))
	if name == "" {
		return nil, errors.New("empty name")
	}

	luck, err := parseCounter("luck", row[1])
	if err != nil {
		return nil, err
	}

	tierBonus, err := parseCounter("tier", row[2])
	if err != nil {
		return nil, err
	}

	lifetime, err := parseCounter("lifetime", row[3])
	if err != nil {
		return nil, err
	}

	roundsSinceWin, err := parseCounter("roundsSinceWin", row[4])
	if err != nil {
		return nil, err
	}

	userID := ""
	if len(row) > 5 {
		userID = strings.TrimSpace(row[5])
	}

	return &models.UserRecord{
		Name:            name,
		UserID:          userID,
		Luck:            luck,
		TierBonus:       tierBonus,
		LifetimeEntries: lifetime,
		RoundsSinceWin:  roundsSinceWin,
	}, nil
}

func parseCounter(field, value string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q", field, value)
	}
	if n < 0 {
		return 0, fmt.Errorf("negative %s value %d", field, n)
	}
	return n, nil
}
