package report

// Schema is the JSON Schema (Draft 2020-12) for the review JSON
// output. It documents the structure returned by WriteJSON.
const Schema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "$id": "https://github.com/unbound-force/pyreview/review-report.schema.json",
  "title": "pyreview Quality Report",
  "description": "Output schema for pyreview review --format=json",
  "type": "object",
  "required": ["version", "score", "results"],
  "properties": {
    "version": {
      "type": "string",
      "description": "Schema version (semver)"
    },
    "score": { "$ref": "#/$defs/Breakdown" },
    "results": {
      "type": "array",
      "items": { "$ref": "#/$defs/Result" }
    },
    "performance": { "$ref": "#/$defs/PerfStats" }
  },
  "$defs": {
    "Breakdown": {
      "type": "object",
      "required": [
        "total_score", "grade", "total_tests", "total_issues",
        "error_count", "warning_count", "info_count",
        "categories", "penalties"
      ],
      "properties": {
        "total_score": {
          "type": "number",
          "minimum": 0,
          "maximum": 100
        },
        "grade": {
          "type": "string",
          "enum": ["A", "B", "C", "D", "F"]
        },
        "total_tests": { "type": "integer", "minimum": 0 },
        "total_issues": { "type": "integer", "minimum": 0 },
        "error_count": { "type": "integer", "minimum": 0 },
        "warning_count": { "type": "integer", "minimum": 0 },
        "info_count": { "type": "integer", "minimum": 0 },
        "categories": {
          "type": "array",
          "items": { "$ref": "#/$defs/CategoryScore" }
        },
        "penalties": {
          "type": "array",
          "items": { "$ref": "#/$defs/Penalty" }
        }
      }
    },
    "CategoryScore": {
      "type": "object",
      "required": ["name", "weight", "raw_score", "weighted_score", "issue_count"],
      "properties": {
        "name": {
          "type": "string",
          "enum": ["assertions", "clarity", "isolation", "simplicity", "performance"]
        },
        "weight": { "type": "number", "exclusiveMinimum": 0, "maximum": 1 },
        "raw_score": { "type": "number", "minimum": 0, "maximum": 100 },
        "weighted_score": { "type": "number", "minimum": 0, "maximum": 100 },
        "issue_count": { "type": "integer", "minimum": 0 }
      }
    },
    "Penalty": {
      "type": "object",
      "required": ["reason", "amount"],
      "properties": {
        "reason": { "type": "string" },
        "amount": { "type": "number", "minimum": 0 }
      }
    },
    "Result": {
      "type": "object",
      "required": ["analyzer_name", "issues", "score"],
      "properties": {
        "analyzer_name": { "type": "string" },
        "issues": {
          "type": "array",
          "items": { "$ref": "#/$defs/Issue" }
        },
        "score": { "type": "number" },
        "metadata": { "type": "object" }
      }
    },
    "Issue": {
      "type": "object",
      "required": ["rule", "message", "severity"],
      "properties": {
        "rule": {
          "type": "string",
          "description": "Stable dotted rule id (namespace.check)",
          "pattern": "^[a-z_]+\\.[a-z_]+$"
        },
        "message": { "type": "string" },
        "severity": {
          "type": "string",
          "enum": ["info", "warning", "error"]
        },
        "file_path": { "type": "string" },
        "line": { "type": "integer", "minimum": 1 },
        "test_name": { "type": "string" },
        "suggestion": { "type": "string" }
      }
    },
    "PerfStats": {
      "type": "object",
      "required": [
        "total_ms", "avg_ms", "min_ms", "max_ms",
        "slow_count", "very_slow_count"
      ],
      "properties": {
        "total_ms": { "type": "number", "minimum": 0 },
        "avg_ms": { "type": "number", "minimum": 0 },
        "min_ms": { "type": "number", "minimum": 0 },
        "max_ms": { "type": "number", "minimum": 0 },
        "slow_count": { "type": "integer", "minimum": 0 },
        "very_slow_count": { "type": "integer", "minimum": 0 }
      }
    }
  }
}`
