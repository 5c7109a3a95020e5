package elasticsearch

// DefaultIndexName is the default Elasticsearch index used for product documents.
const DefaultIndexName = "catalog_products"

// buildIndexMapping returns the JSON mapping for the products index.
func buildIndexMapping() string {
	return `{
  "settings": {
    "number_of_shards": 1,
    "number_of_replicas": 0
  },
  "mappings": {
    "properties": {
      "id":          { "type": "keyword" },
      "name":        { "type": "text", "fields": { "keyword": { "type": "keyword", "ignore_above": 256 } } },
      "description": { "type": "text" },
      "price":       { "type": "double" },
      "category":    { "type": "text", "fields": { "keyword": { "type": "keyword" } } },
      "tags":        { "type": "text", "fields": { "keyword": { "type": "keyword" } } },
      "merchant_id": { "type": "keyword" }
    }
  }
}`
}
