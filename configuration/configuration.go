package configuration

type Configuration struct {
	HttpAddr          string `usage:"HTTP address"`
	Dir               string `usage:"data directory"`
	PageSize          int    `usage:"rows per page read"`
	LogLevel          string `usage:"log level: debug | info | warning | error"`
	EnableCompression bool   `usage:"gzip responses"`

	SqlitePath           string `usage:"sqlite database file to serve as a source"`
	SqliteName           string `usage:"source name of the sqlite query"`
	SqliteQuery          string `usage:"ordered query to page through, without LIMIT/OFFSET"`
	SqliteRootColumn     string `usage:"primary sort column; enables the ratio projection estimate"`
	SqliteRootCountQuery string `usage:"query counting the distinct values of the root column"`

	Version    bool `usage:"show version and exit"`
	ShowConfig bool `usage:"print config"`
}

func Default() Configuration {
	return Configuration{
		HttpAddr:   ":8080",
		Dir:        "data",
		PageSize:   100,
		LogLevel:   "info",
		SqliteName: "sqlite",
	}
}
