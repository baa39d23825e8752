// Package careerdex embeds the career recommendation pipeline in a Go
// program without running the HTTP server.
//
// A Client searches one indexed occupations collection, filtered by the
// user's education level, and narrates the matches through a language
// model or a fixed template.
//
// # Searching an existing index
//
//	client, _ := careerdex.New(ctx, careerdex.WithSQLite("data/careers.db"))
//	defer client.Close()
//
//	resp, _ := client.Recommend(ctx, careerdex.Profile{
//	    Interests:        "helping sick people",
//	    Skills:           "empathy, active listening",
//	    Age:              24,
//	    EducationLevelID: 3,
//	})
//	fmt.Println(resp.UserSummary)
//
// # Building the index
//
//	report, _ := client.Index(ctx, careerdex.IndexOptions{
//	    DatasetPath:    "data/career_gold_dataset.csv",
//	    EmbeddingsPath: "data/career_embeddings.f32",
//	})
//
// Query vectors must come from the same Embedder used at index time. When
// WithEmbedder is not given the deterministic offline hash encoder is used
// for both.
package careerdex
