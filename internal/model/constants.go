package model

// Field length and geometry limits shared by validation across the API.
const (
	NameMaxLen         = 50   // first/last name length limit
	StadiumNameMaxLen  = 100  // stadium name length limit
	AddressMaxLen      = 200  // street address length limit
	SeatLabelMaxLen    = 20   // upper bound on a raw seat label
	MatchesPerPage     = 20   // default page size for match listings
	StadiumMinCapacity = 1000 // smallest capacity a stadium may declare

	VIPRowsMin        = 1
	VIPRowsMax        = 20
	VIPSeatsPerRowMin = 10
	VIPSeatsPerRowMax = 50
)

// User roles.  Stored lower-cased in users.role.
const (
	RoleFan     = "fan"
	RoleManager = "manager"
	RoleAdmin   = "admin"
)

// Genders enumerates accepted values for users.gender.
var Genders = map[string]bool{
	"male":   true,
	"female": true,
	"other":  true,
}

// Teams enumerates the clubs a match may be scheduled between.  Values
// are stored lower-cased.
var Teams = map[string]bool{
	"al ahly sc":                 true,
	"zamalek sc":                 true,
	"el gouna fc":                true,
	"al masry sc":                true,
	"pyramids fc":                true,
	"enppi sc":                   true,
	"misr lel makkasa sc":        true,
	"ceramica cleopatra fc":      true,
	"smouha sc":                  true,
	"national bank of egypt sc":  true,
	"ghazl el mahalla sc":        true,
	"al ittihad alexandria club": true,
	"aswan sc":                   true,
	"ismaily sc":                 true,
	"tala'ea el gaish sc":        true,
	"al mokawloon al arab sc":    true,
	"wadi degla sc":              true,
	"el entag el harby sc":       true,
}

// Cities enumerates accepted values for users.city.
var Cities = map[string]bool{
	"cairo":                true,
	"alexandria":           true,
	"giza":                 true,
	"shubra el-kheima":     true,
	"port said":            true,
	"suez":                 true,
	"luxor":                true,
	"al-mansura":           true,
	"el-mahalla el-kubra":  true,
	"tanta":                true,
	"asyut":                true,
	"ismailia":             true,
	"fayyum":               true,
	"zagazig":              true,
	"aswan":                true,
	"damietta":             true,
	"damanhur":             true,
	"al-minya":             true,
	"beni suef":            true,
	"qena":                 true,
	"sohag":                true,
	"hurghada":             true,
	"6th of october city":  true,
	"shibin el kom":        true,
	"banha":                true,
	"kafr el-sheikh":       true,
	"arish":                true,
	"mallawi":              true,
	"10th of ramadan city": true,
	"bilbais":              true,
	"marsa matruh":         true,
	"idfu":                 true,
	"mit ghamr":            true,
	"al-hamidiyya":         true,
	"desouk":               true,
	"qalyub":               true,
	"abu kabir":            true,
	"kafr el-dawwar":       true,
	"girga":                true,
	"akhmim":               true,
	"matareya":             true,
}
