package config

// DefaultConfig returns the configuration surface at its §6 default
// values. The layer closed lists (annotation names / name substrings /
// package substrings) are not enumerated verbatim anywhere in the spec
// text itself — §4.1 says they are "listed verbatim in §6" but the
// external-interfaces table only names the constant, not its contents —
// so the lists below are the project's own closed-world choice for a
// Spring-style annotated Java/Kotlin codebase, recorded as a resolved
// open question in DESIGN.md rather than re-litigated at every call site.
func DefaultConfig() *Config {
	return &Config{
		Name:    "archdecomp",
		Version: "1.0.0",

		InterClusterWeights: InterClusterWeights{
			Table: 0.25,
			Call:  0.35,
			Token: 0.30,
			Event: 0.10,
		},

		Consolidation: ConsolidationConfig{
			EvidenceThreshold: 0.65,
			MinStrongSignals:  2,
			StrongSignalThresholds: StrongSignalThresholds{
				Table: 0.4,
				Call:  0.35,
				Token: 0.6,
			},
			MaxSizeWithoutHighSimilarity: 40,
			HighTokenSimilarity:          0.75,
			SupportRatio:                 0.8,
			SameDomainInfraRatio:         0.3,
		},

		Viability: ViabilityConfig{
			CohesionWeight:    0.5,
			CouplingWeight:    0.35,
			DataWeight:        0.15,
			HighViability:     0.7,
			MediumViability:   0.5,
			SmallSizePenalty:  0.6,
			LargeSizePenalty:  0.7,
			StrongCohesion:    0.7,
			StrongCouplingMax: 0.3,
			StrongMinSize:     3,
			NanoMaxSize:       2,
		},

		ExcludeTokens: []string{
			"entity", "model", "data", "dto", "event", "command", "query",
			"impl", "repository", "service", "controller", "api", "rest",
			"http", "adapter", "port", "localevents", "rabbit", "jpa",
			"repo", "dao", "operations", "listener", "publisher", "handler",
			"factory", "db", "usecase", "primaryports", "secondaryports",
		},

		InfraKeywordOrder: []string{
			"config", "security", "auth", "swagger", "email", "notification",
			"log", "audit", "application",
		},
		InfraKeywords: map[string]string{
			"config":       "Configuración",
			"security":     "Seguridad",
			"auth":         "Autenticación",
			"swagger":      "Documentación",
			"email":        "Notificaciones por Email",
			"notification": "Notificaciones",
			"log":          "Logging",
			"audit":        "Auditoría",
			"application":  "Aplicación Principal",
		},

		SupportGenericNames: []string{
			"componente de infraestructura",
			"componente de negocio",
			"componente desconocido",
		},

		RoleKeywords: []string{
			// Longest-suffix-first order matters: ServiceImpl must be
			// tried before Service (§9 design note).
			"serviceimpl", "service", "usecase", "repository", "repo",
			"controller", "api", "operations", "operation", "listener",
			"publisher", "adapter", "factory", "handler", "db",
		},

		DomainTokenKeywords: []string{
			"service", "controller", "repository", "repo", "usecase",
			"operations", "listener", "publisher", "adapter", "factory",
			"handler", "db",
		},

		InfraClassifierKeywords: []string{
			"config", "security", "application", "exception", "error",
			"jwt", "swagger", "filter", "errorhandler",
		},

		Layers: map[string]LayerRules{
			"Controller": {
				Annotations:       []string{"RestController", "Controller"},
				NameSubstrings:    []string{"Controller", "Resource", "Endpoint"},
				PackageSubstrings: []string{".controller.", ".rest.", ".api.", ".web.controller."},
			},
			"Business": {
				Annotations:       []string{"Service", "UseCase"},
				NameSubstrings:    []string{"Service", "UseCase", "Manager", "Handler", "Operations"},
				PackageSubstrings: []string{".service.", ".services.", ".business.", ".usecase."},
			},
			"Persistence": {
				Annotations:       []string{"Repository", "Entity", "Table"},
				NameSubstrings:    []string{"Repository", "Dao", "Entity"},
				PackageSubstrings: []string{".repository.", ".persistence.", ".dao.", ".entity."},
			},
			"Domain": {
				Annotations:       []string{"ValueObject", "Embeddable"},
				NameSubstrings:    []string{"Model", "Domain"},
				PackageSubstrings: []string{".domain.", ".model."},
			},
			"Transfer": {
				Annotations:       []string{"Dto"},
				NameSubstrings:    []string{"Dto", "Request", "Response", "Payload"},
				PackageSubstrings: []string{".dto.", ".transfer."},
			},
			"Web": {
				Annotations:       []string{"RequestMapping", "GetMapping", "PostMapping", "PutMapping", "DeleteMapping"},
				NameSubstrings:    []string{"Filter", "Interceptor", "WebConfig"},
				PackageSubstrings: []string{".web."},
			},
			"Shared": {
				Annotations:       []string{"Component", "Configuration"},
				NameSubstrings:    []string{"Util", "Helper", "Config", "Constants"},
				PackageSubstrings: []string{".common.", ".shared.", ".util.", ".config."},
			},
		},

		Logging: LoggingConfig{
			Level:     "info",
			DebugMode: false,
		},
	}
}
