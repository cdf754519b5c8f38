// Package docs holds the OpenAPI document served under /swagger. It mirrors
// the handler annotations; regenerate it with
// swag init -g services/http.go -o docs after changing them.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/api/v1/participants/{participantId}/answers": {
            "post": {
                "description": "Records a judged answer; an incorrect answer costs one heart",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "gamification"
                ],
                "summary": "Judge answer",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Participant ID",
                        "name": "participantId",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "Judged answer",
                        "name": "answerJudgedRequest",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/dto.AnswerJudgedRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "allOf": [
                                {
                                    "$ref": "#/definitions/shared.Response"
                                },
                                {
                                    "type": "object",
                                    "properties": {
                                        "data": {
                                            "$ref": "#/definitions/dto.AnswerJudgedResponse"
                                        }
                                    }
                                }
                            ]
                        }
                    }
                }
            }
        },
        "/api/v1/participants/{participantId}/can-participate": {
            "get": {
                "description": "Whether the participant has hearts left today",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "gamification"
                ],
                "summary": "Check participation",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Participant ID",
                        "name": "participantId",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "allOf": [
                                {
                                    "$ref": "#/definitions/shared.Response"
                                },
                                {
                                    "type": "object",
                                    "properties": {
                                        "data": {
                                            "$ref": "#/definitions/dto.CanParticipateResponse"
                                        }
                                    }
                                }
                            ]
                        }
                    }
                }
            }
        },
        "/api/v1/participants/{participantId}/events": {
            "post": {
                "description": "Best-effort; the event may be dropped under load",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "events"
                ],
                "summary": "Record event",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Participant ID",
                        "name": "participantId",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "Event",
                        "name": "recordEventRequest",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/dto.RecordEventRequest"
                        }
                    }
                ],
                "responses": {
                    "202": {
                        "description": "Accepted",
                        "schema": {
                            "$ref": "#/definitions/shared.Response"
                        }
                    }
                }
            }
        },
        "/api/v1/participants/{participantId}/export": {
            "post": {
                "description": "Uploads everything recorded for the participant to object storage",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "export"
                ],
                "summary": "Export participant data",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Participant ID",
                        "name": "participantId",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "allOf": [
                                {
                                    "$ref": "#/definitions/shared.Response"
                                },
                                {
                                    "type": "object",
                                    "properties": {
                                        "data": {
                                            "$ref": "#/definitions/dto.ExportResponse"
                                        }
                                    }
                                }
                            ]
                        }
                    }
                }
            }
        },
        "/api/v1/participants/{participantId}/gamification": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "gamification"
                ],
                "summary": "Get gamification snapshot",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Participant ID",
                        "name": "participantId",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "allOf": [
                                {
                                    "$ref": "#/definitions/shared.Response"
                                },
                                {
                                    "type": "object",
                                    "properties": {
                                        "data": {
                                            "$ref": "#/definitions/dto.GamificationSnapshot"
                                        }
                                    }
                                }
                            ]
                        }
                    }
                }
            }
        },
        "/api/v1/participants/{participantId}/login": {
            "post": {
                "description": "Opens a session for the tab and runs the daily heart reset and streak update",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "participant"
                ],
                "summary": "Participant login",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Participant ID",
                        "name": "participantId",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "Login request",
                        "name": "loginRequest",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/dto.LoginRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "allOf": [
                                {
                                    "$ref": "#/definitions/shared.Response"
                                },
                                {
                                    "type": "object",
                                    "properties": {
                                        "data": {
                                            "$ref": "#/definitions/dto.LoginResponse"
                                        }
                                    }
                                }
                            ]
                        }
                    }
                }
            }
        },
        "/api/v1/participants/{participantId}/logout": {
            "post": {
                "description": "Closes the tab's session and stops it from reopening on visibility changes",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "participant"
                ],
                "summary": "Participant logout",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Participant ID",
                        "name": "participantId",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "Logout request",
                        "name": "logoutRequest",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/dto.LogoutRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "allOf": [
                                {
                                    "$ref": "#/definitions/shared.Response"
                                },
                                {
                                    "type": "object",
                                    "properties": {
                                        "data": {
                                            "$ref": "#/definitions/dto.SessionSignalResponse"
                                        }
                                    }
                                }
                            ]
                        }
                    }
                }
            }
        },
        "/api/v1/participants/{participantId}/quiz": {
            "post": {
                "description": "Scores a completed quiz, keeps the best result per unit and awards XP",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "progress"
                ],
                "summary": "Save quiz result",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Participant ID",
                        "name": "participantId",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "Quiz result",
                        "name": "quizResultRequest",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/dto.QuizResultRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "allOf": [
                                {
                                    "$ref": "#/definitions/shared.Response"
                                },
                                {
                                    "type": "object",
                                    "properties": {
                                        "data": {
                                            "$ref": "#/definitions/dto.QuizResultResponse"
                                        }
                                    }
                                }
                            ]
                        }
                    }
                }
            }
        },
        "/api/v1/participants/{participantId}/tabs/{tabId}/hidden": {
            "post": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "session"
                ],
                "summary": "Tab hidden",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Participant ID",
                        "name": "participantId",
                        "in": "path",
                        "required": true
                    },
                    {
                        "type": "string",
                        "description": "Tab ID",
                        "name": "tabId",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "allOf": [
                                {
                                    "$ref": "#/definitions/shared.Response"
                                },
                                {
                                    "type": "object",
                                    "properties": {
                                        "data": {
                                            "$ref": "#/definitions/dto.SessionSignalResponse"
                                        }
                                    }
                                }
                            ]
                        }
                    }
                }
            }
        },
        "/api/v1/participants/{participantId}/tabs/{tabId}/pagehide": {
            "post": {
                "description": "Beacon endpoint. The session close is written in the background.",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "session"
                ],
                "summary": "Page hide",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Participant ID",
                        "name": "participantId",
                        "in": "path",
                        "required": true
                    },
                    {
                        "type": "string",
                        "description": "Tab ID",
                        "name": "tabId",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "202": {
                        "description": "Accepted",
                        "schema": {
                            "allOf": [
                                {
                                    "$ref": "#/definitions/shared.Response"
                                },
                                {
                                    "type": "object",
                                    "properties": {
                                        "data": {
                                            "$ref": "#/definitions/dto.SessionSignalResponse"
                                        }
                                    }
                                }
                            ]
                        }
                    }
                }
            }
        },
        "/api/v1/participants/{participantId}/tabs/{tabId}/unload": {
            "post": {
                "description": "Beacon endpoint. The session close is written in the background.",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "session"
                ],
                "summary": "Page unload",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Participant ID",
                        "name": "participantId",
                        "in": "path",
                        "required": true
                    },
                    {
                        "type": "string",
                        "description": "Tab ID",
                        "name": "tabId",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "202": {
                        "description": "Accepted",
                        "schema": {
                            "allOf": [
                                {
                                    "$ref": "#/definitions/shared.Response"
                                },
                                {
                                    "type": "object",
                                    "properties": {
                                        "data": {
                                            "$ref": "#/definitions/dto.SessionSignalResponse"
                                        }
                                    }
                                }
                            ]
                        }
                    }
                }
            }
        },
        "/api/v1/participants/{participantId}/tabs/{tabId}/visible": {
            "post": {
                "description": "Reopens a session if the tab still has a logged-in identity",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "session"
                ],
                "summary": "Tab visible",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Participant ID",
                        "name": "participantId",
                        "in": "path",
                        "required": true
                    },
                    {
                        "type": "string",
                        "description": "Tab ID",
                        "name": "tabId",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "allOf": [
                                {
                                    "$ref": "#/definitions/shared.Response"
                                },
                                {
                                    "type": "object",
                                    "properties": {
                                        "data": {
                                            "$ref": "#/definitions/dto.SessionSignalResponse"
                                        }
                                    }
                                }
                            ]
                        }
                    }
                }
            }
        },
        "/api/v1/participants/{participantId}/units/{index}/unlocked": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "progress"
                ],
                "summary": "Check unit unlock",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Participant ID",
                        "name": "participantId",
                        "in": "path",
                        "required": true
                    },
                    {
                        "type": "integer",
                        "description": "Unit index in the catalog",
                        "name": "index",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "allOf": [
                                {
                                    "$ref": "#/definitions/shared.Response"
                                },
                                {
                                    "type": "object",
                                    "properties": {
                                        "data": {
                                            "$ref": "#/definitions/dto.UnlockResponse"
                                        }
                                    }
                                }
                            ]
                        }
                    }
                }
            }
        },
        "/api/v1/participants/{participantId}/units/{unitId}/best": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "progress"
                ],
                "summary": "Get best score",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Participant ID",
                        "name": "participantId",
                        "in": "path",
                        "required": true
                    },
                    {
                        "type": "string",
                        "description": "Unit ID",
                        "name": "unitId",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "allOf": [
                                {
                                    "$ref": "#/definitions/shared.Response"
                                },
                                {
                                    "type": "object",
                                    "properties": {
                                        "data": {
                                            "$ref": "#/definitions/dto.BestScoreResponse"
                                        }
                                    }
                                }
                            ]
                        }
                    }
                }
            }
        },
        "/api/v1/participants/{participantId}/video-runs": {
            "post": {
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "video"
                ],
                "summary": "Start video run",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Participant ID",
                        "name": "participantId",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "Video run",
                        "name": "startVideoRunRequest",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/dto.StartVideoRunRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "allOf": [
                                {
                                    "$ref": "#/definitions/shared.Response"
                                },
                                {
                                    "type": "object",
                                    "properties": {
                                        "data": {
                                            "$ref": "#/definitions/dto.VideoRunResponse"
                                        }
                                    }
                                }
                            ]
                        }
                    }
                }
            }
        },
        "/api/v1/participants/{participantId}/video-runs/{runId}": {
            "put": {
                "description": "Attaches final metrics; repeated calls leave the first metrics in place",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "video"
                ],
                "summary": "Finish video run",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Participant ID",
                        "name": "participantId",
                        "in": "path",
                        "required": true
                    },
                    {
                        "type": "string",
                        "description": "Video run ID",
                        "name": "runId",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "Metrics",
                        "name": "finishVideoRunRequest",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/dto.FinishVideoRunRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "allOf": [
                                {
                                    "$ref": "#/definitions/shared.Response"
                                },
                                {
                                    "type": "object",
                                    "properties": {
                                        "data": {
                                            "$ref": "#/definitions/dto.VideoRunResponse"
                                        }
                                    }
                                }
                            ]
                        }
                    }
                }
            }
        },
        "/ping": {
            "get": {
                "description": "This endpoint checks the health of the service",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "health"
                ],
                "summary": "Ping",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "allOf": [
                                {
                                    "$ref": "#/definitions/shared.Response"
                                },
                                {
                                    "type": "object",
                                    "properties": {
                                        "data": {
                                            "type": "string"
                                        }
                                    }
                                }
                            ]
                        }
                    }
                }
            }
        }
    },
    "definitions": {
        "dto.AnswerJudgedRequest": {
            "type": "object",
            "required": [
                "correct",
                "unit_id"
            ],
            "properties": {
                "correct": {
                    "type": "boolean",
                    "example": false
                },
                "tab_id": {
                    "maxLength": 100,
                    "type": "string",
                    "example": "tab-1"
                },
                "unit_id": {
                    "maxLength": 100,
                    "type": "string",
                    "example": "unit-01"
                }
            }
        },
        "dto.AnswerJudgedResponse": {
            "type": "object",
            "properties": {
                "can_participate": {
                    "type": "boolean"
                },
                "correct": {
                    "type": "boolean"
                },
                "hearts": {
                    "type": "integer"
                }
            }
        },
        "dto.BestScoreResponse": {
            "type": "object",
            "properties": {
                "best_score": {
                    "type": "integer"
                },
                "best_stars": {
                    "type": "integer"
                },
                "unit_id": {
                    "type": "string"
                }
            }
        },
        "dto.CanParticipateResponse": {
            "type": "object",
            "properties": {
                "can_participate": {
                    "type": "boolean"
                }
            }
        },
        "dto.ExportResponse": {
            "type": "object",
            "properties": {
                "object_key": {
                    "type": "string"
                },
                "size": {
                    "type": "integer"
                }
            }
        },
        "dto.FinishVideoRunRequest": {
            "type": "object",
            "required": [
                "metrics"
            ],
            "properties": {
                "metrics": {
                    "type": "object",
                    "additionalProperties": true
                }
            }
        },
        "dto.GamificationSnapshot": {
            "type": "object",
            "properties": {
                "can_participate": {
                    "type": "boolean"
                },
                "hearts": {
                    "type": "integer"
                },
                "initialized": {
                    "type": "boolean"
                },
                "last_activity_day": {
                    "type": "string"
                },
                "max_hearts": {
                    "type": "integer"
                },
                "participant_id": {
                    "type": "string"
                },
                "streak_days": {
                    "type": "integer"
                },
                "xp": {
                    "type": "integer"
                }
            }
        },
        "dto.LoginRequest": {
            "type": "object",
            "required": [
                "tab_id"
            ],
            "properties": {
                "condition": {
                    "enum": [
                        "gamified",
                        "control"
                    ],
                    "type": "string",
                    "example": "gamified"
                },
                "day_number": {
                    "minimum": 0,
                    "type": "integer",
                    "example": 1
                },
                "tab_id": {
                    "maxLength": 100,
                    "type": "string",
                    "example": "tab-1"
                }
            }
        },
        "dto.LoginResponse": {
            "type": "object",
            "properties": {
                "catalog_size": {
                    "type": "integer"
                },
                "condition": {
                    "type": "string"
                },
                "gamification": {
                    "$ref": "#/definitions/dto.GamificationSnapshot"
                },
                "open_sessions": {
                    "type": "integer"
                },
                "session": {
                    "$ref": "#/definitions/dto.SessionInfo"
                },
                "unlocked_through": {
                    "type": "integer"
                }
            }
        },
        "dto.LogoutRequest": {
            "type": "object",
            "required": [
                "tab_id"
            ],
            "properties": {
                "tab_id": {
                    "maxLength": 100,
                    "type": "string",
                    "example": "tab-1"
                }
            }
        },
        "dto.QuizResultRequest": {
            "type": "object",
            "required": [
                "total",
                "unit_id"
            ],
            "properties": {
                "correct": {
                    "minimum": 0,
                    "type": "integer",
                    "example": 9
                },
                "tab_id": {
                    "maxLength": 100,
                    "type": "string",
                    "example": "tab-1"
                },
                "total": {
                    "minimum": 1,
                    "type": "integer",
                    "example": 10
                },
                "unit_id": {
                    "maxLength": 100,
                    "type": "string",
                    "example": "unit-01"
                }
            }
        },
        "dto.QuizResultResponse": {
            "type": "object",
            "properties": {
                "best_score": {
                    "type": "integer"
                },
                "best_stars": {
                    "type": "integer"
                },
                "correct": {
                    "type": "integer"
                },
                "gamification": {
                    "$ref": "#/definitions/dto.GamificationSnapshot"
                },
                "next_unit_unlocked": {
                    "type": "boolean"
                },
                "stars": {
                    "type": "integer"
                },
                "total": {
                    "type": "integer"
                },
                "unit_id": {
                    "type": "string"
                },
                "xp_earned": {
                    "type": "integer"
                }
            }
        },
        "dto.RecordEventRequest": {
            "type": "object",
            "required": [
                "type"
            ],
            "properties": {
                "metadata": {
                    "type": "object",
                    "additionalProperties": true
                },
                "tab_id": {
                    "maxLength": 100,
                    "type": "string",
                    "example": "tab-1"
                },
                "type": {
                    "maxLength": 64,
                    "type": "string",
                    "example": "caption_toggled"
                },
                "video_run_id": {
                    "maxLength": 64,
                    "type": "string"
                }
            }
        },
        "dto.SessionInfo": {
            "type": "object",
            "properties": {
                "session_id": {
                    "type": "string"
                },
                "started_at": {
                    "type": "integer"
                },
                "tab_id": {
                    "type": "string"
                }
            }
        },
        "dto.SessionSignalResponse": {
            "type": "object",
            "properties": {
                "end_reason": {
                    "type": "string"
                },
                "open": {
                    "type": "boolean"
                },
                "session": {
                    "$ref": "#/definitions/dto.SessionInfo"
                },
                "tab_id": {
                    "type": "string"
                }
            }
        },
        "dto.StartVideoRunRequest": {
            "type": "object",
            "required": [
                "unit_id"
            ],
            "properties": {
                "tab_id": {
                    "maxLength": 100,
                    "type": "string",
                    "example": "tab-1"
                },
                "unit_id": {
                    "maxLength": 100,
                    "type": "string",
                    "example": "unit-01"
                }
            }
        },
        "dto.UnlockResponse": {
            "type": "object",
            "properties": {
                "index": {
                    "type": "integer"
                },
                "unlocked": {
                    "type": "boolean"
                }
            }
        },
        "dto.VideoRunResponse": {
            "type": "object",
            "properties": {
                "finished": {
                    "type": "boolean"
                },
                "run_id": {
                    "type": "string"
                },
                "session_id": {
                    "type": "string"
                },
                "unit_id": {
                    "type": "string"
                }
            }
        },
        "shared.Response": {
            "type": "object",
            "properties": {
                "code": {
                    "type": "integer"
                },
                "data": {},
                "message": {
                    "type": "string"
                }
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Engage API",
	Description:      "Progress and engagement state for the video learning study",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
