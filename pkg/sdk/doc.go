// Package catalogqa embeds the storefront product QA pipeline in a Go
// program: semantic product search and templated chat answers over a
// catalog indexed in Redis, Valkey or Milvus.
//
// The caller supplies the query embedder; it must produce vectors from the
// same model the catalog was indexed with.
//
//	client, err := catalogqa.New(ctx,
//	    catalogqa.WithRedis("localhost:6379", ""),
//	    catalogqa.WithEmbedder(myEmbedder),
//	)
//	if err != nil { ... }
//	defer client.Close()
//
//	hits, _ := client.Search(ctx, "laptop chơi game", 5)
//	reply, _ := client.Chat(ctx, "điện thoại pin trâu", 3)
//	fmt.Println(reply.Answer)
//
// A cross-encoder can be plugged in with WithReranker; search then retrieves
// a larger pool and reorders it before truncating to top_k.
package catalogqa
