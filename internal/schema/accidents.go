package schema

// Normalized column names of the accident table. Raw exports spell them with
// dots (Event.Id); the pipeline's first stage rewrites "." to "_".
const (
	EventID              = "Event_Id"
	InvestigationType    = "Investigation_Type"
	AccidentNumber       = "Accident_Number"
	EventDate            = "Event_Date"
	Location             = "Location"
	Country              = "Country"
	InjurySeverity       = "Injury_Severity"
	Make                 = "Make"
	EngineType           = "Engine_Type"
	PurposeOfFlight      = "Purpose_of_flight"
	TotalFatalInjuries   = "Total_Fatal_Injuries"
	TotalSeriousInjuries = "Total_Serious_Injuries"
	TotalMinorInjuries   = "Total_Minor_Injuries"
	TotalUninjured       = "Total_Uninjured"
	PublicationDate      = "Publication_Date"
)

// Derived columns added by preprocessing and enrichment.
const (
	City                  = "City"
	State                 = "State"
	EventYear             = "Event_year"
	EventMonth            = "Event_month"
	DaysToPublication     = "Time_between_publication_and_event"
	TotalPeople           = "Total_people_in_accident"
	TemperatureOnEventDay = "Temperatures_accident_day"
)

// InjuryColumns are summed into TotalPeople.
var InjuryColumns = []string{
	TotalFatalInjuries,
	TotalSeriousInjuries,
	TotalMinorInjuries,
	TotalUninjured,
}

// Accidents is the schema of the raw NTSB export, declared with the raw
// (dotted) column names. Identifiers and the event date are required; every
// other column is nullable. Numeric columns are floats because the export
// leaves many of them blank.
func Accidents() Schema {
	str := func(name string) Column { return Column{Name: name, Type: String, Nullable: true} }
	num := func(name string) Column { return Column{Name: name, Type: Float, Nullable: true} }

	return Schema{
		Name:   "aviation_accidents",
		Coerce: true,
		Columns: []Column{
			{Name: "Event.Id", Type: String},
			{Name: "Investigation.Type", Type: String},
			{Name: "Accident.Number", Type: String},
			{Name: "Event.Date", Type: Date, Nullable: true},
			str("Location"),
			str("Country"),
			str("Latitude"),
			str("Longitude"),
			str("Airport.Code"),
			str("Airport.Name"),
			str("Injury.Severity"),
			str("Aircraft.damage"),
			str("Aircraft.Category"),
			str("Registration.Number"),
			str("Make"),
			str("Model"),
			str("Amateur.Built"),
			num("Number.of.Engines"),
			str("Engine.Type"),
			str("FAR.Description"),
			str("Schedule"),
			str("Purpose.of.flight"),
			str("Air.carrier"),
			num("Total.Fatal.Injuries"),
			num("Total.Serious.Injuries"),
			num("Total.Minor.Injuries"),
			num("Total.Uninjured"),
			str("Weather.Condition"),
			str("Broad.phase.of.flight"),
			str("Report.Status"),
			{Name: "Publication.Date", Type: Date, Nullable: true},
		},
	}
}

// Processed is the schema of a preprocessed snapshot: Accidents with
// normalized names plus the derived columns. It is used to restore types
// when a snapshot is read back from CSV.
func Processed() Schema {
	return Accidents().Renamed(".", "_").With(
		Column{Name: City, Type: String, Nullable: true},
		Column{Name: State, Type: String, Nullable: true},
		Column{Name: EventYear, Type: Int, Nullable: true},
		Column{Name: EventMonth, Type: Int, Nullable: true},
		Column{Name: DaysToPublication, Type: Int, Nullable: true},
		Column{Name: TotalPeople, Type: Float, Nullable: true},
		Column{Name: TemperatureOnEventDay, Type: Float, Nullable: true},
	)
}
