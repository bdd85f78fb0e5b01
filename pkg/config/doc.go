// # Pipeline definition files
//
// A pipeline definition lists its pipes in order. Each entry is either a
// bare name, which gets the default "rest" adapter and "id" record
// identifier, or an object:
//
//	name: tracker
//	log_level: debug
//	pipes:
//	  - tasks
//	  - projects
//	  - name: tags
//	    type: memory
//	    recordId: uuid
//	  - name: users
//	    settings:
//	      baseURL: ${API_URL}
//	      endpoint: /v1/users
//
// ## Loading
//
//	cfg, err := config.LoadPipeline("pipeline.yaml")
//	if err != nil {
//		log.Fatal(err)
//	}
//
// ## Environment Variable Substitution
//
// ${VAR_NAME} anywhere in the file is replaced with the variable's value
// before parsing. PIPES_LOG_LEVEL, PIPES_LOG_FORMAT and PIPES_NAME override
// the matching top-level keys.
package config
