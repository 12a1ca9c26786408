package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/stemsi/cutoff-backend/internal/model"
)

// dataset is the content of one seed directory.
type dataset struct {
	States   []model.State
	Colleges []model.College
	Cutoffs  []model.Cutoff
}

func readDataset(dir string) (*dataset, error) {
	ds := &dataset{}

	err := readCSV(filepath.Join(dir, "states.csv"), []string{"id", "name"}, func(rec []string) error {
		id, err := parseID(rec[0])
		if err != nil {
			return err
		}
		ds.States = append(ds.States, model.State{ID: id, Name: rec[1]})
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = readCSV(filepath.Join(dir, "colleges.csv"), []string{"id", "name", "state_id"}, func(rec []string) error {
		id, err := parseID(rec[0])
		if err != nil {
			return err
		}
		stateID, err := parseID(rec[2])
		if err != nil {
			return err
		}
		ds.Colleges = append(ds.Colleges, model.College{ID: id, Name: rec[1], StateID: stateID})
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = readCSV(filepath.Join(dir, "cutoffs.csv"), []string{"id", "college_id", "state_id", "category", "closing_rank"}, func(rec []string) error {
		var ids [3]int
		for i := range ids {
			v, err := parseID(rec[i])
			if err != nil {
				return err
			}
			ids[i] = v
		}
		rank, err := strconv.Atoi(strings.TrimSpace(rec[4]))
		if err != nil || rank <= 0 {
			return fmt.Errorf("closing_rank %q must be a positive integer", rec[4])
		}
		ds.Cutoffs = append(ds.Cutoffs, model.Cutoff{
			ID:          ids[0],
			CollegeID:   ids[1],
			StateID:     ids[2],
			Category:    strings.TrimSpace(rec[3]),
			ClosingRank: rank,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	return ds, ds.check()
}

// check rejects colleges in unknown states and cutoffs whose denormalized
// state disagrees with their college. SQLite does not enforce the foreign keys.
func (ds *dataset) check() error {
	states := make(map[int]struct{}, len(ds.States))
	for _, s := range ds.States {
		states[s.ID] = struct{}{}
	}

	collegeState := make(map[int]int, len(ds.Colleges))
	for _, c := range ds.Colleges {
		if _, ok := states[c.StateID]; !ok {
			return fmt.Errorf("college %d references unknown state %d", c.ID, c.StateID)
		}
		collegeState[c.ID] = c.StateID
	}
	for _, c := range ds.Cutoffs {
		stateID, ok := collegeState[c.CollegeID]
		if !ok {
			return fmt.Errorf("cutoff %d references unknown college %d", c.ID, c.CollegeID)
		}
		if stateID != c.StateID {
			return fmt.Errorf("cutoff %d has state %d but college %d is in state %d", c.ID, c.StateID, c.CollegeID, stateID)
		}
	}
	return nil
}

func (ds *dataset) stateRows() [][]any {
	rows := make([][]any, len(ds.States))
	for i, s := range ds.States {
		rows[i] = []any{s.ID, s.Name}
	}
	return rows
}

func (ds *dataset) collegeRows() [][]any {
	rows := make([][]any, len(ds.Colleges))
	for i, c := range ds.Colleges {
		rows[i] = []any{c.ID, c.Name, c.StateID}
	}
	return rows
}

func (ds *dataset) cutoffRows() [][]any {
	rows := make([][]any, len(ds.Cutoffs))
	for i, c := range ds.Cutoffs {
		rows[i] = []any{c.ID, c.CollegeID, c.StateID, c.Category, c.ClosingRank}
	}
	return rows
}

// readCSV checks the header row against header and calls fn for every record.
func readCSV(path string, header []string, fn func([]string) error) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = len(header)

	got, err := r.Read()
	if err != nil {
		return fmt.Errorf("%s: read header: %w", path, err)
	}
	for i, col := range header {
		if strings.TrimSpace(strings.ToLower(got[i])) != col {
			return fmt.Errorf("%s: column %d is %q, want %q", path, i+1, got[i], col)
		}
	}

	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		if err := fn(rec); err != nil {
			line, _ := r.FieldPos(0)
			return fmt.Errorf("%s:%d: %w", path, line, err)
		}
	}
}

func parseID(s string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}
