package utils

import (
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/scythe504/impostor-backend/internal"
)

// ReadQuestionsCsvFile loads question pairs from rows of
// normal,impostor[,category]. Malformed rows are skipped.
func ReadQuestionsCsvFile(filePath string) ([]internal.QuestionPair, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("unable to read questions file %s: %w", filePath, err)
	}
	defer f.Close()

	csvReader := csv.NewReader(f)
	csvReader.FieldsPerRecord = -1
	csvReader.TrimLeadingSpace = true

	records, err := csvReader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("unable to parse %s as CSV: %w", filePath, err)
	}

	var pairs []internal.QuestionPair
	for _, record := range records {
		if len(record) < 2 {
			log.Println("Skipping invalid question record: ", record)
			continue
		}
		normal := strings.TrimSpace(record[0])
		impostor := strings.TrimSpace(record[1])
		if normal == "" || impostor == "" {
			log.Println("Skipping question record with empty question: ", record)
			continue
		}

		pair := internal.QuestionPair{
			Normal:   normal,
			Impostor: impostor,
		}
		if len(record) > 2 {
			pair.Category = strings.TrimSpace(record[2])
		}

		pairs = append(pairs, pair)
	}

	if len(pairs) == 0 {
		return nil, fmt.Errorf("no usable question pairs in %s", filePath)
	}
	return pairs, nil
}
