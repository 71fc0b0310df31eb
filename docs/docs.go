// Package docs содержит OpenAPI-описание API портала, регистрируемое в swag.
// Описание поддерживается вручную вместе с godoc-аннотациями обработчиков.
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
        "/register": {
            "get": {
                "summary": "Форма регистрации",
                "tags": [
                    "Pages"
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/pages.Form"
                        }
                    }
                }
            },
            "post": {
                "summary": "Регистрация учётной записи",
                "tags": [
                    "Auth"
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "201": {
                        "description": "Учётная запись создана",
                        "schema": {
                            "$ref": "#/definitions/response.Response"
                        }
                    },
                    "400": {
                        "description": "Некорректное тело запроса",
                        "schema": {
                            "$ref": "#/definitions/response.ErrorResponse"
                        }
                    },
                    "422": {
                        "description": "Ошибка валидации или e-mail занят",
                        "schema": {
                            "$ref": "#/definitions/response.ErrorResponse"
                        }
                    },
                    "500": {
                        "description": "Внутренняя ошибка сервера",
                        "schema": {
                            "$ref": "#/definitions/response.ErrorResponse"
                        }
                    }
                },
                "consumes": [
                    "application/json",
                    "application/x-www-form-urlencoded"
                ],
                "parameters": [
                    {
                        "description": "Данные регистрации",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/register.Request"
                        }
                    }
                ]
            }
        },
        "/login": {
            "get": {
                "summary": "Форма входа",
                "tags": [
                    "Pages"
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/pages.Form"
                        }
                    }
                }
            },
            "post": {
                "summary": "Вход в учётную запись",
                "tags": [
                    "Auth"
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "Успешный вход",
                        "schema": {
                            "$ref": "#/definitions/response.Response"
                        }
                    },
                    "303": {
                        "description": "Сессия уже активна, переход на дашборд"
                    },
                    "400": {
                        "description": "Некорректное тело запроса",
                        "schema": {
                            "$ref": "#/definitions/response.ErrorResponse"
                        }
                    },
                    "401": {
                        "description": "Неверный e-mail или пароль",
                        "schema": {
                            "$ref": "#/definitions/response.ErrorResponse"
                        }
                    },
                    "422": {
                        "description": "Ошибка валидации",
                        "schema": {
                            "$ref": "#/definitions/response.ErrorResponse"
                        }
                    },
                    "500": {
                        "description": "Внутренняя ошибка сервера",
                        "schema": {
                            "$ref": "#/definitions/response.ErrorResponse"
                        }
                    }
                },
                "consumes": [
                    "application/json",
                    "application/x-www-form-urlencoded"
                ],
                "parameters": [
                    {
                        "description": "Учётные данные",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/login.Request"
                        }
                    }
                ]
            }
        },
        "/logout": {
            "get": {
                "summary": "Выход из учётной записи",
                "tags": [
                    "Auth"
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "303": {
                        "description": "Переход на главную"
                    }
                }
            },
            "post": {
                "summary": "Выход из учётной записи",
                "tags": [
                    "Auth"
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "303": {
                        "description": "Переход на главную"
                    }
                }
            }
        },
        "/dashboard": {
            "get": {
                "summary": "Дашборд",
                "tags": [
                    "Dashboard"
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "allOf": [
                                {
                                    "$ref": "#/definitions/response.Response"
                                },
                                {
                                    "type": "object",
                                    "properties": {
                                        "data": {
                                            "$ref": "#/definitions/dashboard.View"
                                        }
                                    }
                                }
                            ]
                        }
                    },
                    "303": {
                        "description": "No session, redirect to /login"
                    }
                }
            }
        },
        "/upi_sender": {
            "post": {
                "summary": "Отправка UPI-платежа (заглушка)",
                "tags": [
                    "Placeholders"
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    },
                    "303": {
                        "description": "No session, redirect to /login"
                    }
                }
            }
        },
        "/upi_receiver": {
            "post": {
                "summary": "Приём UPI-платежа (заглушка)",
                "tags": [
                    "Placeholders"
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    },
                    "303": {
                        "description": "No session, redirect to /login"
                    }
                }
            }
        },
        "/chatbot": {
            "post": {
                "summary": "Чат-бот (заглушка)",
                "tags": [
                    "Placeholders"
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    },
                    "303": {
                        "description": "No session, redirect to /login"
                    }
                }
            }
        },
        "/analytics": {
            "get": {
                "summary": "Аналитика (заглушка)",
                "tags": [
                    "Placeholders"
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    },
                    "303": {
                        "description": "No session, redirect to /login"
                    }
                }
            }
        },
        "/health": {
            "get": {
                "summary": "Проверка живости",
                "tags": [
                    "Pages"
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    }
                }
            }
        }
    },
    "definitions": {
        "pages.Field": {
            "type": "object",
            "properties": {
                "name": {
                    "type": "string"
                },
                "type": {
                    "type": "string"
                },
                "required": {
                    "type": "boolean"
                }
            }
        },
        "pages.Form": {
            "type": "object",
            "properties": {
                "page": {
                    "type": "string"
                },
                "title": {
                    "type": "string"
                },
                "action": {
                    "type": "string"
                },
                "method": {
                    "type": "string"
                },
                "fields": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/pages.Field"
                    }
                }
            }
        },
        "response.Response": {
            "type": "object",
            "properties": {
                "status": {
                    "type": "string"
                },
                "error": {
                    "type": "string"
                },
                "data": {}
            }
        },
        "response.ErrorResponse": {
            "type": "object",
            "properties": {
                "status": {
                    "type": "string",
                    "example": "Error"
                },
                "error": {
                    "type": "string",
                    "example": "invalid request body"
                }
            }
        },
        "register.Request": {
            "type": "object",
            "properties": {
                "email": {
                    "type": "string"
                },
                "first_name": {
                    "type": "string"
                },
                "last_name": {
                    "type": "string"
                },
                "password": {
                    "type": "string"
                },
                "is_merchant": {
                    "type": "boolean"
                }
            },
            "required": [
                "first_name",
                "last_name"
            ]
        },
        "login.Request": {
            "type": "object",
            "properties": {
                "email": {
                    "type": "string"
                },
                "password": {
                    "type": "string"
                },
                "remember": {
                    "type": "boolean"
                }
            },
            "required": [
                "email",
                "password"
            ]
        },
        "models.Account": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "integer"
                },
                "email": {
                    "type": "string"
                },
                "first_name": {
                    "type": "string"
                },
                "last_name": {
                    "type": "string"
                },
                "role": {
                    "type": "string",
                    "enum": [
                        "user",
                        "merchant"
                    ]
                },
                "created_at": {
                    "type": "string"
                }
            }
        },
        "dashboard.Transaction": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "integer"
                },
                "amount": {
                    "type": "number"
                },
                "status": {
                    "type": "string"
                },
                "date": {
                    "type": "string"
                },
                "time": {
                    "type": "string"
                }
            }
        },
        "dashboard.View": {
            "type": "object",
            "properties": {
                "kind": {
                    "type": "string"
                },
                "account": {
                    "$ref": "#/definitions/models.Account"
                },
                "user_name": {
                    "type": "string"
                },
                "merchant_name": {
                    "type": "string"
                },
                "weeks": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                },
                "income": {
                    "type": "array",
                    "items": {
                        "type": "integer"
                    }
                },
                "percentage": {
                    "type": "integer"
                },
                "transactions": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/dashboard.Transaction"
                    }
                }
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Bank Portal API",
	Description:      "Регистрация, вход и дашборд банковского портала.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
