package report

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path"
)

// Store writes reports as <run id>.json files in a directory
type Store struct {
	dir string
}

// NewStore creates the directory if needed
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", dir)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) Dir() string {
	return s.dir
}

// Save writes r and returns the path of the file
func (s *Store) Save(r *Report) (string, error) {
	p := path.Join(s.dir, fmt.Sprintf("%s.json", r.RunID))
	data, err := json.MarshalIndent(r, "", "\t")
	if err != nil {
		return "", err
	}
	file, err := os.Create(p)
	if err != nil {
		return "", err
	}
	defer file.Close()
	writer := bufio.NewWriter(file)
	if _, err := writer.Write(data); err != nil {
		return "", err
	}
	if err := writer.Flush(); err != nil {
		return "", err
	}
	return p, nil
}

// Load reads the report of the given run
func (s *Store) Load(runID string) (*Report, error) {
	data, err := os.ReadFile(path.Join(s.dir, fmt.Sprintf("%s.json", runID)))
	if err != nil {
		return nil, err
	}
	r := &Report{}
	if err := json.Unmarshal(data, r); err != nil {
		return nil, fmt.Errorf("error unmarshalling report: %w", err)
	}
	return r, nil
}
