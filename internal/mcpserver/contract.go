package mcpserver

// OutputSchema is the JSON Schema of a structured contract, as returned by
// parse_text, read_document and the pactum CLI.
const OutputSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "title": "Pactum structured contract",
  "type": "object",
  "required": ["title", "contract_type", "effective_date", "sections"],
  "properties": {
    "title": {
      "type": "string",
      "description": "First line of the first page naming a contract type (agreement, contract, NDA, lease, ...), or a title derived from the file name."
    },
    "contract_type": {
      "type": "string",
      "const": "Agreement"
    },
    "effective_date": {
      "type": ["string", "null"],
      "format": "date",
      "description": "ISO-8601 calendar date (YYYY-MM-DD) or null when none was found."
    },
    "sections": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["title", "number", "clauses"],
        "properties": {
          "title": {"type": "string"},
          "number": {
            "type": ["string", "null"],
            "description": "Arabic, dotted (2.3) or Roman numeral; null for unnumbered headings and the Preamble."
          },
          "clauses": {
            "type": "array",
            "items": {
              "type": "object",
              "required": ["text", "label", "index"],
              "properties": {
                "text": {"type": "string", "minLength": 1},
                "label": {
                  "type": "string",
                  "description": "Enumerator without punctuation (a, iv, 2.3) or an ALL-CAPS caption; empty when unlabeled."
                },
                "index": {
                  "type": "integer",
                  "minimum": 0,
                  "description": "Zero-based position within the section, contiguous."
                }
              }
            }
          }
        }
      }
    }
  }
}
`
