package memory

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/BruksfildServices01/staff-scheduler/internal/models"
)

// SeedStaff is a staff member as written in a seed file. Job types are
// referenced by ID. Password, when set and PasswordHash is not, is hashed
// on load; it is meant for local fixtures only.
type SeedStaff struct {
	models.StaffMember
	PasswordHash string `json:"password_hash"`
	Password     string `json:"password"`
	JobTypeIDs   []uint `json:"job_type_ids"`
}

type Seed struct {
	Businesses      []models.Business             `json:"businesses"`
	JobTypes        []models.JobType              `json:"job_types"`
	Staff           []SeedStaff                   `json:"staff"`
	Customers       []models.Customer             `json:"customers"`
	CalendarConfigs []models.CalendarConfig       `json:"calendar_configs"`
	Overrides       []models.AvailabilityOverride `json:"overrides"`
	Holidays        []models.Holiday              `json:"holidays"`
	Appointments    []models.Appointment          `json:"appointments"`
}

// Load adds seed to the store. Records keep their IDs.
func (s *Store) Load(seed Seed) error {
	unlock, err := s.write()
	if err != nil {
		return err
	}
	defer unlock()

	d := s.d
	bump := func(id uint) {
		if id > d.seq {
			d.seq = id
		}
	}

	for _, b := range seed.Businesses {
		d.businesses[b.ID] = b
		bump(b.ID)
	}
	for _, jt := range seed.JobTypes {
		d.jobTypes[jt.ID] = jt
		bump(jt.ID)
	}
	for _, st := range seed.Staff {
		m := st.StaffMember
		m.PasswordHash = st.PasswordHash
		if m.PasswordHash == "" && st.Password != "" {
			hash, err := bcrypt.GenerateFromPassword([]byte(st.Password), bcrypt.DefaultCost)
			if err != nil {
				return fmt.Errorf("seed: hash password of staff %d: %w", m.ID, err)
			}
			m.PasswordHash = string(hash)
		}
		for _, id := range st.JobTypeIDs {
			jt, ok := d.jobTypes[id]
			if !ok {
				return fmt.Errorf("seed: staff %d references unknown job type %d", m.ID, id)
			}
			m.JobTypes = append(m.JobTypes, jt)
		}
		d.staff[m.ID] = m
		bump(m.ID)
	}
	for _, c := range seed.Customers {
		d.customers[c.ID] = c
		bump(c.ID)
	}
	for _, cfg := range seed.CalendarConfigs {
		d.configs[cfg.StaffID] = cfg
		bump(cfg.ID)
	}
	for _, o := range seed.Overrides {
		d.overrides[overrideKey{o.StaffID, civilDate(o.Date)}] = o
		bump(o.ID)
	}
	for _, h := range seed.Holidays {
		if h.ID == 0 {
			h.ID = d.nextID()
		}
		d.holidays[h.ID] = h
		bump(h.ID)
	}
	for _, ap := range seed.Appointments {
		if ap.ID == "" {
			ap.ID = uuid.NewString()
		}
		if ap.BlockedUntil.IsZero() {
			ap.BlockedUntil = ap.EndAt
			if cfg, ok := d.configs[ap.StaffID]; ok {
				ap.BlockedUntil = ap.EndAt.Add(cfg.Buffer())
			}
		}
		if err := checkExclusion(d.appointments, &ap); err != nil {
			return fmt.Errorf("seed: appointment %s: %w", ap.ID, err)
		}
		d.appointments[ap.ID] = ap
	}
	return nil
}

func (s *Store) LoadFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read seed: %w", err)
	}
	var seed Seed
	if err := json.Unmarshal(raw, &seed); err != nil {
		return fmt.Errorf("decode seed: %w", err)
	}
	return s.Load(seed)
}
