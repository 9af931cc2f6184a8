package clinic

// Info captures the clinic metadata shown in the sidebar and quoted by the receptionist.
type Info struct {
	Name     string   `json:"name" yaml:"name"`
	Doctor   string   `json:"doctor" yaml:"doctor"`
	Timing   string   `json:"timing" yaml:"timing"`
	Address  string   `json:"address" yaml:"address"`
	Fees     string   `json:"fees" yaml:"fees"`
	Services []string `json:"services" yaml:"services"`
}

// Seed provides the default Lumivian Clinic profile.
func Seed() Info {
	return Info{
		Name:     "Lumivian Clinic",
		Doctor:   "Dr. Rajesh Sharma",
		Timing:   "सुबह 9:00 बजे से शाम 7:00 बजे तक (सोमवार से शनिवार)",
		Address:  "123, Main Market, New Delhi - 110001",
		Fees:     "₹500 पहली विज़िट के लिए",
		Services: []string{"बाल झड़ना", "त्वचा की समस्याएं", "दर्द का इलाज", "सामान्य परामर्श"},
	}
}

// Merge fills empty fields of override from base.
func Merge(base, override Info) Info {
	out := base
	if override.Name != "" {
		out.Name = override.Name
	}
	if override.Doctor != "" {
		out.Doctor = override.Doctor
	}
	if override.Timing != "" {
		out.Timing = override.Timing
	}
	if override.Address != "" {
		out.Address = override.Address
	}
	if override.Fees != "" {
		out.Fees = override.Fees
	}
	if len(override.Services) > 0 {
		out.Services = append([]string(nil), override.Services...)
	}
	return out
}
