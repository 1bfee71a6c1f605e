package main

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"finease/internal/dto"
	"finease/internal/models"
	"finease/internal/service"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// SeededFile represents a file already loaded into the ledger.
type SeededFile struct {
	FilePath string    `json:"file_path"`
	FileHash string    `json:"file_hash"`
	SeededAt time.Time `json:"seeded_at"`
	Created  int       `json:"created"`
}

// CacheData stores information about seeded files, keyed by path.
type CacheData struct {
	SeededFiles map[string]SeededFile `json:"seeded_files"`
}

// seed creates every request through the ledger so records get the same
// validation as API writes. Invalid entries are logged and skipped.
func seed(ctx context.Context, ledger *service.LedgerService, reqs []dto.TransactionRequest, logger *zap.Logger) (int, error) {
	created := 0
	for i := range reqs {
		tx, err := ledger.Create(ctx, reqs[i].ToInput())
		if err != nil {
			if verr, ok := models.AsValidationError(err); ok {
				logger.Warn("Skipping invalid transaction", zap.Int("index", i), zap.Error(verr))
				continue
			}
			return created, fmt.Errorf("create transaction %d: %w", i, err)
		}
		logger.Debug("Seeded transaction", zap.String("id", tx.ID.String()))
		created++
	}
	return created, nil
}

// seedFile loads a JSON array of transactions unless the same content was
// seeded before according to cacheFile.
func seedFile(ctx context.Context, ledger *service.LedgerService, path, cacheFile string, logger *zap.Logger) (int, error) {
	fileHash, err := calculateFileHash(path)
	if err != nil {
		return 0, err
	}

	cache, err := loadCache(cacheFile)
	if err != nil {
		logger.Warn("Failed to load cache, will seed anyway", zap.Error(err))
		cache = &CacheData{SeededFiles: make(map[string]SeededFile)}
	}
	if cached, ok := cache.SeededFiles[path]; ok && cached.FileHash == fileHash {
		logger.Info("File already seeded, skipping",
			zap.String("path", path),
			zap.Time("seeded_at", cached.SeededAt),
		)
		return 0, nil
	}

	reqs, err := loadTransactions(path)
	if err != nil {
		return 0, err
	}

	created, err := seed(ctx, ledger, reqs, logger)
	if err != nil {
		return created, err
	}

	cache.SeededFiles[path] = SeededFile{
		FilePath: path,
		FileHash: fileHash,
		SeededAt: time.Now().UTC(),
		Created:  created,
	}
	if err := saveCache(cacheFile, cache); err != nil {
		logger.Warn("Failed to save cache", zap.Error(err))
	}
	return created, nil
}

func loadTransactions(path string) ([]dto.TransactionRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	var reqs []dto.TransactionRequest
	if err := json.Unmarshal(data, &reqs); err != nil {
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}
	return reqs, nil
}

func loadCache(cacheFile string) (*CacheData, error) {
	cache := &CacheData{
		SeededFiles: make(map[string]SeededFile),
	}

	data, err := os.ReadFile(cacheFile)
	if os.IsNotExist(err) {
		return cache, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cache file: %w", err)
	}
	if len(data) == 0 {
		return cache, nil
	}

	if err := json.Unmarshal(data, cache); err != nil {
		return nil, fmt.Errorf("failed to parse cache file: %w", err)
	}
	if cache.SeededFiles == nil {
		cache.SeededFiles = make(map[string]SeededFile)
	}
	return cache, nil
}

func saveCache(cacheFile string, cache *CacheData) error {
	data, err := json.MarshalIndent(cache, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal cache: %w", err)
	}
	if err := os.WriteFile(cacheFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}
	return nil
}

func calculateFileHash(filePath string) (string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	hash := md5.New()
	if _, err := io.Copy(hash, file); err != nil {
		return "", fmt.Errorf("failed to calculate hash: %w", err)
	}
	return fmt.Sprintf("%x", hash.Sum(nil)), nil
}

// demoTransactions is a month of activity for one owner: 5000 in, 1200 out.
func demoTransactions(owner string) []dto.TransactionRequest {
	month := time.Now().UTC().AddDate(0, 0, -30)
	entry := func(typ, category, amount, description string, day int) dto.TransactionRequest {
		a := decimal.RequireFromString(amount)
		d := dto.Date{Time: month.AddDate(0, 0, day)}
		return dto.TransactionRequest{
			Type:        &typ,
			Category:    &category,
			Amount:      &a,
			Description: &description,
			Date:        &d,
			OwnerEmail:  &owner,
		}
	}

	return []dto.TransactionRequest{
		entry("income", "salary", "4500", "Monthly salary", 1),
		entry("income", "freelance", "500", "Logo design", 12),
		entry("expense", "rent", "800", "Apartment rent", 2),
		entry("expense", "groceries", "215.40", "Weekly groceries", 5),
		entry("expense", "transport", "64.60", "Metro pass", 6),
		entry("expense", "utilities", "120", "Electricity and water", 15),
	}
}
