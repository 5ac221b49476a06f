// Package docs registers the api OpenAPI document with swag
// keep it in step with the @Router annotations on the module handlers
package docs

import "github.com/swaggo/swag/v2"

const docTemplate = `{
    "openapi": "3.0.3",
    "info": {
        "title": "{{.Title}}",
        "description": "{{.Description}}",
        "version": "{{.Version}}"
    },
    "paths": {
        "/meta/health": {
            "get": {
                "tags": ["Meta"],
                "summary": "Health check",
                "operationId": "metaHealth",
                "responses": {
                    "200": {
                        "description": "ok",
                        "content": {
                            "application/json": {
                                "schema": {
                                    "$ref": "#/components/schemas/HealthResponse"
                                }
                            }
                        }
                    }
                }
            }
        },
        "/meta/ready": {
            "get": {
                "tags": ["Meta"],
                "summary": "Readiness probe with backend checks",
                "operationId": "metaReady",
                "responses": {
                    "200": {
                        "description": "ok",
                        "content": {
                            "application/json": {
                                "schema": {
                                    "$ref": "#/components/schemas/ReadyResponse"
                                }
                            }
                        }
                    },
                    "503": {
                        "description": "a configured backend did not answer",
                        "content": {
                            "application/json": {
                                "schema": {
                                    "$ref": "#/components/schemas/ReadyResponse"
                                }
                            }
                        }
                    }
                }
            }
        },
        "/meta/version": {
            "get": {
                "tags": ["Meta"],
                "summary": "Build and version info",
                "operationId": "metaVersion",
                "responses": {
                    "200": {
                        "description": "ok",
                        "content": {
                            "application/json": {
                                "schema": {
                                    "$ref": "#/components/schemas/BuildInfo"
                                }
                            }
                        }
                    }
                }
            }
        },
        "/meta/service": {
            "get": {
                "tags": ["Meta"],
                "summary": "Service info and uptime",
                "operationId": "metaService",
                "responses": {
                    "200": {
                        "description": "ok",
                        "content": {
                            "application/json": {
                                "schema": {
                                    "$ref": "#/components/schemas/ServiceResponse"
                                }
                            }
                        }
                    }
                }
            }
        },
        "/relations": {
            "get": {
                "tags": ["Relations"],
                "summary": "Loaded relations with row counts and keys",
                "operationId": "relationsList",
                "responses": {
                    "200": {
                        "description": "ok",
                        "content": {
                            "application/json": {
                                "schema": {
                                    "type": "array",
                                    "items": {
                                        "$ref": "#/components/schemas/RelationInfo"
                                    }
                                }
                            }
                        }
                    },
                    "404": {
                        "description": "nothing has been normalized yet"
                    }
                }
            }
        },
        "/relations/{name}": {
            "get": {
                "tags": ["Relations"],
                "summary": "One page of relation rows",
                "operationId": "relationsPage",
                "parameters": [
                    {
                        "name": "name",
                        "in": "path",
                        "required": true,
                        "schema": {
                            "type": "string",
                            "example": "persons"
                        }
                    },
                    {
                        "name": "offset",
                        "in": "query",
                        "schema": {
                            "type": "integer",
                            "minimum": 0
                        }
                    },
                    {
                        "name": "limit",
                        "in": "query",
                        "schema": {
                            "type": "integer",
                            "minimum": 0,
                            "maximum": 1000
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "ok; page.cursor is the next offset",
                        "content": {
                            "application/json": {
                                "schema": {
                                    "$ref": "#/components/schemas/RowPage"
                                }
                            }
                        }
                    },
                    "404": {
                        "description": "unknown relation"
                    }
                }
            }
        },
        "/relations/{name}/schema": {
            "get": {
                "tags": ["Relations"],
                "summary": "Columns and key of a relation",
                "operationId": "relationsSchema",
                "parameters": [
                    {
                        "name": "name",
                        "in": "path",
                        "required": true,
                        "schema": {
                            "type": "string",
                            "example": "appointments"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "ok",
                        "content": {
                            "application/json": {
                                "schema": {
                                    "$ref": "#/components/schemas/SchemaInfo"
                                }
                            }
                        }
                    },
                    "404": {
                        "description": "unknown relation"
                    }
                }
            }
        },
        "/runs": {
            "post": {
                "tags": ["Runs"],
                "summary": "Run a normalization and return its report",
                "operationId": "runsStart",
                "requestBody": {
                    "required": false,
                    "content": {
                        "application/json": {
                            "schema": {
                                "$ref": "#/components/schemas/Job"
                            }
                        }
                    }
                },
                "responses": {
                    "201": {
                        "description": "created",
                        "content": {
                            "application/json": {
                                "schema": {
                                    "$ref": "#/components/schemas/Report"
                                }
                            }
                        }
                    },
                    "415": {
                        "description": "body is not json"
                    },
                    "422": {
                        "description": "raw file is missing columns or a sink is not configured"
                    },
                    "429": {
                        "description": "another run is in flight"
                    }
                }
            },
            "get": {
                "tags": ["Runs"],
                "summary": "Recorded runs, newest first",
                "operationId": "runsHistory",
                "parameters": [
                    {
                        "name": "limit",
                        "in": "query",
                        "schema": {
                            "type": "integer",
                            "minimum": 0,
                            "maximum": 200
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "ok"
                    },
                    "503": {
                        "description": "no postgres ledger configured"
                    }
                }
            }
        }
    },
    "components": {
        "schemas": {
            "HealthResponse": {
                "type": "object",
                "properties": {
                    "ok": {
                        "type": "boolean",
                        "example": true
                    },
                    "service": {
                        "type": "string",
                        "example": "aarc-api"
                    },
                    "started": {
                        "type": "string",
                        "example": "2026-10-18T09:00:00Z"
                    },
                    "now": {
                        "type": "string",
                        "example": "2026-10-18T09:05:00Z"
                    }
                }
            },
            "ReadyCheck": {
                "type": "object",
                "properties": {
                    "name": {
                        "type": "string",
                        "example": "pg"
                    },
                    "status": {
                        "type": "string",
                        "enum": ["ok", "fail", "skipped", "unknown"]
                    },
                    "error": {
                        "type": "string"
                    }
                }
            },
            "ReadyResponse": {
                "type": "object",
                "properties": {
                    "status": {
                        "type": "string",
                        "enum": ["ok", "fail"]
                    },
                    "checks": {
                        "type": "array",
                        "items": {
                            "$ref": "#/components/schemas/ReadyCheck"
                        }
                    },
                    "now": {
                        "type": "string"
                    }
                }
            },
            "ServiceResponse": {
                "type": "object",
                "properties": {
                    "name": {
                        "type": "string"
                    },
                    "started": {
                        "type": "string"
                    },
                    "uptime": {
                        "type": "integer",
                        "format": "int64"
                    },
                    "data_dir": {
                        "type": "string"
                    }
                }
            },
            "BuildInfo": {
                "type": "object",
                "properties": {
                    "service": {
                        "type": "string"
                    },
                    "version": {
                        "type": "string",
                        "example": "v0.3.0"
                    },
                    "commit": {
                        "type": "string"
                    },
                    "date": {
                        "type": "string"
                    },
                    "go": {
                        "type": "string"
                    }
                }
            },
            "RelationInfo": {
                "type": "object",
                "properties": {
                    "name": {
                        "type": "string",
                        "example": "persons"
                    },
                    "rows": {
                        "type": "integer"
                    },
                    "columns": {
                        "type": "array",
                        "items": {
                            "type": "string"
                        }
                    },
                    "key": {
                        "type": "array",
                        "items": {
                            "type": "string"
                        }
                    }
                }
            },
            "SchemaInfo": {
                "type": "object",
                "properties": {
                    "name": {
                        "type": "string"
                    },
                    "columns": {
                        "type": "array",
                        "items": {
                            "type": "string"
                        }
                    },
                    "key": {
                        "type": "array",
                        "items": {
                            "type": "string"
                        }
                    }
                }
            },
            "Page": {
                "type": "object",
                "properties": {
                    "total": {
                        "type": "integer"
                    },
                    "page": {
                        "type": "integer"
                    },
                    "page_size": {
                        "type": "integer"
                    },
                    "cursor": {
                        "type": "string"
                    }
                }
            },
            "RowPage": {
                "type": "object",
                "properties": {
                    "items": {
                        "type": "array",
                        "items": {
                            "type": "object",
                            "additionalProperties": true
                        }
                    },
                    "page": {
                        "$ref": "#/components/schemas/Page"
                    }
                }
            },
            "Job": {
                "type": "object",
                "properties": {
                    "raw_path": {
                        "type": "string"
                    },
                    "out_dir": {
                        "type": "string"
                    },
                    "run_id": {
                        "type": "string",
                        "format": "uuid"
                    },
                    "export": {
                        "type": "array",
                        "items": {
                            "type": "string",
                            "enum": ["pg", "ch"]
                        }
                    },
                    "nfc": {
                        "type": "boolean"
                    }
                }
            },
            "Report": {
                "type": "object",
                "properties": {
                    "run_id": {
                        "type": "string"
                    },
                    "raw_path": {
                        "type": "string"
                    },
                    "raw_rows": {
                        "type": "integer"
                    },
                    "out_dir": {
                        "type": "string"
                    },
                    "counts": {
                        "type": "object",
                        "additionalProperties": {
                            "type": "integer"
                        }
                    },
                    "sinks": {
                        "type": "array",
                        "items": {
                            "type": "string"
                        }
                    },
                    "load_ms": {
                        "type": "integer"
                    },
                    "normalize_ms": {
                        "type": "integer"
                    },
                    "write_ms": {
                        "type": "integer"
                    },
                    "publish_ms": {
                        "type": "integer"
                    },
                    "elapsed_ms": {
                        "type": "integer"
                    }
                }
            }
        }
    }
}`

// SwaggerInfo is the registered document; callers may change its fields before serving
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Title:            "aarcnorm api",
	Description:      "Normalization runs and the normalized AARC relations",
	InfoInstanceName: "api",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
