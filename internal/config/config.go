package config

import (
	"io/fs"
	"time"
)

// -----------------------------------------------------------------------------
// Build Information
// -----------------------------------------------------------------------------

// Build variables are injected via -ldflags.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// UserAgent identifies the HTTP client.
var UserAgent = "Orbita-Import/" + Version

// -----------------------------------------------------------------------------
// Application Constants
// -----------------------------------------------------------------------------

const (
	AppName        = "Orbita"
	AppID          = "com.github.tartampluch.orbita"
	KeyringService = "com.github.tartampluch.orbita"
	LogFileName    = "import.log"
)

// -----------------------------------------------------------------------------
// Exit Codes
// -----------------------------------------------------------------------------

const (
	ExitCodeSuccess = 0
	ExitCodeError   = 1
)

// -----------------------------------------------------------------------------
// System & File Permissions
// -----------------------------------------------------------------------------

const (
	// FilePermUserRW represents -rw------- (Read/Write for owner only).
	FilePermUserRW fs.FileMode = 0600

	// DirPermUserRWX represents drwx------ (Read/Write/Exec for owner only).
	DirPermUserRWX fs.FileMode = 0700

	// ChannelBufferSize defines the standard buffer size for internal signaling channels.
	ChannelBufferSize = 1
)

// -----------------------------------------------------------------------------
// CLI Commands, Flags & Descriptions
// -----------------------------------------------------------------------------

const (
	CmdRoot    = "orbita"
	CmdImport  = "import [file]"
	CmdServe   = "serve"
	CmdLogin   = "login"
	CmdVersion = "version"

	FlagDebug        = "debug"
	FlagFormat       = "format"
	FlagURL          = "url"
	FlagUser         = "user"
	FlagPhotos       = "photos"
	FlagPhotoBaseURL = "photo-base-url"
	FlagDB           = "db"
	FlagLang         = "lang"
	FlagAddr         = "addr"

	FlagDescDebug        = "Enable debug logging"
	FlagDescFormat       = "Input format (csv, json, vcard, xlsx); detected from the file extension when empty"
	FlagDescURL          = "Fetch the import source from this http(s) URL instead of a local file"
	FlagDescUser         = "Basic Auth user for --url (password from env or keyring)"
	FlagDescPhotos       = "Directory of photos to match against imported contacts"
	FlagDescPhotoBaseURL = "Base URL prefixed to matched photo filenames"
	FlagDescDB           = "SQLite database file receiving imported contacts"
	FlagDescLang         = "Language of import diagnostics (en, fr)"
	FlagDescAddr         = "Listen address for the HTTP service"

	DescRoot    = "Import and normalize contacts for the Orbita map"
	DescImport  = "Import contacts from a CSV, JSON, vCard or XLSX file"
	DescServe   = "Run the import HTTP service"
	DescLogin   = "Store the password for a remote source user in the system keyring"
	DescVersion = "Show application version"

	MsgVersionOutput  = "%s version %s (%s/%s)\n"
	MsgPasswordPrompt = "Password: "
	MsgPasswordStored = "Password stored for %s\n"
)

// -----------------------------------------------------------------------------
// Import Formats & File Extensions
// -----------------------------------------------------------------------------

const (
	FormatCSV   = "csv"
	FormatJSON  = "json"
	FormatVCard = "vcard"
	FormatXLSX  = "xlsx"

	ExtCSV   = ".csv"
	ExtJSON  = ".json"
	ExtVCF   = ".vcf"
	ExtVCard = ".vcard"
	ExtXLSX  = ".xlsx"
)

// -----------------------------------------------------------------------------
// Import Pipeline Rules
// -----------------------------------------------------------------------------

const (
	// MinCSVRows is the header row plus one data row.
	MinCSVRows = 2

	CSVSeparator   = ','
	CSVQuote       = '"'
	ListSeparator  = ";"
	LabelSeparator = " ::: "

	// LabelMyContacts is Google's built-in group, LabelSystemPrefix marks every other system label.
	LabelMyContacts   = "* myContacts"
	LabelSystemPrefix = "*"

	// Birth years are accepted strictly between these bounds.
	BirthYearMin = 1900
	BirthYearMax = 2100

	LatMin = -90.0
	LatMax = 90.0
	LngMin = -180.0
	LngMax = 180.0

	// PhoneMinNationalDigits rejects short numbers lacking an international prefix.
	PhoneMinNationalDigits = 10
	PhonePlusPrefix        = "+"
	PhoneIntlAccessPrefix  = "00"
	PhoneMaxPrefixLen      = 3

	PhotoURLPrefix  = "http"
	FileURLScheme   = "file://"
	MimeImagePrefix = "image/"

	// Attribute keys populated from address-book columns.
	AttrPhone   = "phone"
	AttrPhone2  = "phone2"
	AttrCompany = "company"
	AttrRole    = "role"

	// Social platforms recognized as CSV columns.
	PlatformLinkedIn  = "linkedin"
	PlatformInstagram = "instagram"
	PlatformTwitter   = "twitter"
	PlatformGitHub    = "github"
	PlatformWebsite   = "website"

	// vCard GEO values are "geo:lat,lng".
	GeoURIPrefix = "geo:"
	// vCard ORG values are "Company;Department".
	VCardOrgSeparator = ";"
	// Property names that open and close a card in a vCard stream.
	VCardBegin = "BEGIN"
	VCardEnd   = "END"
)

// -----------------------------------------------------------------------------
// Network & Timeouts
// -----------------------------------------------------------------------------

const (
	HTTPTimeout         = 30 * time.Second
	ShutdownTimeout     = 5 * time.Second
	ServerReadTimeout   = 10 * time.Second
	ServerWriteTimeout  = 30 * time.Second
	ServerIdleTimeout   = 60 * time.Second
	MaxHTTPResponseSize = 64 * 1024 * 1024 // 64MB
	MaxUploadSize       = 32 * 1024 * 1024 // 32MB
	SchemeHTTP          = "http"
	SchemeHTTPS         = "https"
	DefaultListenAddr   = "127.0.0.1:18080"
	DefaultLanguage     = "en"
)

// -----------------------------------------------------------------------------
// HTTP Routes, Headers & MIME Types
// -----------------------------------------------------------------------------

const (
	RouteImport    = "/api/import/{format}"
	RoutePhotos    = "/api/photos/match"
	RouteContacts  = "/api/contacts"
	RouteHealth    = "/healthz"
	RouteMetrics   = "/metrics"
	RouteVarFormat = "format"

	HeaderContentType  = "Content-Type"
	HeaderXContentType = "X-Content-Type-Options"
	HeaderUserAgent    = "User-Agent"
	HeaderAcceptLang   = "Accept-Language"

	MimeJSON    = "application/json; charset=utf-8"
	MimeNoSniff = "nosniff"

	HealthOK = "ok"
)

// -----------------------------------------------------------------------------
// Metrics
// -----------------------------------------------------------------------------

const (
	MetricsNamespace  = "orbita"
	MetricsSubsystem  = "import"
	MetricLabelFormat = "format"
	MetricLabelResult = "result"
	MetricResultOK    = "success"
	MetricResultFail  = "failure"

	MetricRequestsName  = "requests_total"
	MetricRequestsHelp  = "Total number of import requests broken down by format and result."
	MetricContactsName  = "contacts_total"
	MetricContactsHelp  = "Total number of contacts produced by import requests."
	MetricFormatUnknown = "unknown"
)

// -----------------------------------------------------------------------------
// Storage
// -----------------------------------------------------------------------------

const (
	SQLiteDriver = "sqlite"
	// SQLitePragmas is appended to the DSN so every pooled connection gets them.
	SQLitePragmas = "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
)

// -----------------------------------------------------------------------------
// Error Messages (Technical/Logs)
// -----------------------------------------------------------------------------

const (
	ErrFetcherMissing  = "internal error: network fetcher is not initialized"
	ErrFormatUnknown   = "cannot detect import format from file name"
	ErrSourceMissing   = "either a file argument or --url is required"
	ErrServerStartup   = "server startup failed"
	ErrServerShutdown  = "server shutdown failed"
	ErrAddrRequired    = "listen address is required"
	ErrInvalidURL      = "invalid URL structure"
	ErrProtocol        = "unsupported protocol scheme (http/https only)"
	ErrReadSource      = "failed to read import source"
	ErrLogFile         = "failed to open log file"
	ErrCacheDir        = "could not determine user cache dir"
	ErrCreateDir       = "could not create app cache dir"
	ErrAppFailed       = "application failed unexpectedly"
	ErrWriteResp       = "failed to write response body"
	ErrDecodeBody      = "failed to decode request body"
	ErrLoadEnv         = "failed to load env files"
	ErrParseEnv        = "failed to parse environment"
	ErrDBOpen          = "failed to open contact database"
	ErrDBMigrate       = "failed to migrate contact database"
	ErrDBSave          = "failed to save contacts"
	ErrDBList          = "failed to list contacts"
	ErrDBEncode        = "failed to encode contact column"
	ErrStoreMissing    = "no contact store configured"
	ErrLocalesAccess   = "failed to access embedded locales"
	ErrLocaleLoad      = "failed to load locale file"
	ErrPhotoDir        = "failed to read photo directory"
	ErrKeyringGet      = "failed to read password from keyring"
	ErrKeyringSet      = "failed to store password in keyring"
	ErrUserRequired    = "--user is required"
	ErrPasswordRead    = "failed to read password"
	ErrImportFailed    = "import reported no contacts"
	ErrXLSXOpen        = "failed to open spreadsheet"
	ErrXLSXNoSheet     = "spreadsheet has no sheets"
	ErrFetchRequest    = "failed to create request"
	ErrFetchNetwork    = "network error during fetch"
	ErrFetchStatus     = "source returned unexpected status"
	ErrFetchRead       = "failed to read response body"
	ErrSourceTooLarge  = "import source exceeds size limit"
)

// -----------------------------------------------------------------------------
// Log Messages
// -----------------------------------------------------------------------------

const (
	MsgAppStarting     = "Starting application"
	MsgAppStop         = "Application stopped gracefully"
	MsgServerListen    = "HTTP server listening"
	MsgServerStop      = "Shutting down HTTP server..."
	MsgImportStarted   = "Import started"
	MsgImportFinished  = "Import finished"
	MsgRowSkipped      = "Skipping row without first name"
	MsgRowBadCoords    = "Invalid lat/lng, using defaults"
	MsgPhoneFallback   = "Location derived from phone calling code"
	MsgCardSkipped     = "Skipping malformed vCard"
	MsgImportRecovered = "Recovered from import panic"
	MsgPhotosMatched   = "Photos mapped to contacts"
	MsgPhotoSkipped    = "Skipping non-image file"
	MsgContactsSaved   = "Contacts saved"
	MsgStoreOpened     = "Contact store opened"
	MsgPasswordLookup  = "Source password resolved"
	MsgRequestFailed   = "Request failed"
	MsgLocaleLoaded    = "Locale loaded successfully"
	MsgLocaleSkip      = "Skipping non-locale file"
	MsgTransMissing    = "Missing translation, using default"
	MsgLogWarning      = "Warning: %s at %s: %v\n"
	MsgEnvLoaded       = "Environment files loaded"
	MsgFetchStarted    = "Downloading import source"
	MsgFetchDone       = "Import source downloaded"
	MsgFetchBadStatus  = "Source returned error status"
	MsgFetchTooLarge   = "Import source too large"
	MsgVCardReadFailed = "vCard stream read failed"
)

// -----------------------------------------------------------------------------
// Structured Logging Keys (slog)
// -----------------------------------------------------------------------------

const (
	LogKeyComponent = "component"
	LogKeyError     = "error"
	LogKeyURL       = "url"
	LogKeyStatus    = "status_code"
	LogKeyFile      = "file"
	LogKeyLang      = "lang"
	LogKeyKey       = "key"
	LogKeyAddr      = "addr"
	LogKeyFormat    = "format"
	LogKeyRow       = "row"
	LogKeyValue     = "value"
	LogKeyPrefix    = "prefix"
	LogKeyCountry   = "country"
	LogKeyStats     = "stats"
	LogKeyCount     = "count"
	LogKeyRows      = "rows"
	LogKeyContacts  = "contacts"
	LogKeyErrors    = "errors"
	LogKeyWarnings  = "warnings"
	LogKeyMatched   = "matched"
	LogKeyDuration  = "duration_ms"
	LogKeyPath      = "path"
	LogKeyBytes     = "bytes"
	LogKeyLimit     = "limit"

	// Startup Info Keys
	LogKeyBuild   = "build"
	LogKeyApp     = "app"
	LogKeyVersion = "version"
	LogKeyCommit  = "commit"
	LogKeyDate    = "build_date"
	LogKeyGoVer   = "go_version"
	LogKeyEnv     = "env"
	LogKeyOS      = "os"
	LogKeyArch    = "arch"
	LogKeyPID     = "pid"
)

// -----------------------------------------------------------------------------
// Log Components
// -----------------------------------------------------------------------------

const (
	CompMain        = "main"
	CompImporter    = "importer"
	CompFetcher     = "fetcher"
	CompPhotos      = "photos"
	CompServer      = "server"
	CompStore       = "store"
	CompI18n        = "i18n"
	CompConfig      = "config"
	CompCredentials = "credentials"
)
